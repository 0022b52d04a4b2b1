package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mercator-hq/ifccheck/pkg/config"
)

// originRepo creates a repository with one committed rule file.
func originRepo(t *testing.T) (string, *gogit.Repository) {
	t.Helper()
	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	commitFiles(t, dir, repo, "initial rules", "rules/walls.yaml")
	return dir, repo
}

func commitFiles(t *testing.T, dir string, repo *gogit.Repository, msg string, names ...string) string {
	t.Helper()
	writeFiles(t, dir, names...)

	wt, err := repo.Worktree()
	require.NoError(t, err)
	for _, name := range names {
		_, err := wt.Add(name)
		require.NoError(t, err)
	}
	hash, err := wt.Commit(msg, &gogit.CommitOptions{
		Author: &object.Signature{Name: "Rules Author", Email: "rules@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	return hash.String()
}

func TestNewGitSource_Errors(t *testing.T) {
	tests := []struct {
		name string
		cfg  *config.GitConfig
	}{
		{name: "nil config", cfg: nil},
		{name: "no repository", cfg: &config.GitConfig{LocalDir: "x"}},
		{name: "no local dir", cfg: &config.GitConfig{Repository: "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGitSource(tt.cfg)
			assert.Error(t, err)
		})
	}
}

func TestGitSource_DefaultPatterns(t *testing.T) {
	src, err := NewGitSource(&config.GitConfig{Repository: "r", LocalDir: "d"})
	require.NoError(t, err)
	assert.Equal(t, []string{"**/*.yaml", "**/*.yml"}, src.patterns)

	_, err = src.Head()
	assert.EqualError(t, err, "repository not initialized")
}

func TestGitSource_CloneAndPull(t *testing.T) {
	origin, repo := originRepo(t)
	cloneDir := filepath.Join(t.TempDir(), "clone")

	src, err := NewGitSource(&config.GitConfig{
		Repository: origin,
		Branch:     "master",
		LocalDir:   cloneDir,
		Timeout:    10 * time.Second,
	}, "rules/*.yaml")
	require.NoError(t, err)

	ctx := context.Background()
	files, err := src.Resolve(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(cloneDir, "rules", "walls.yaml")}, files)

	first, err := src.Head()
	require.NoError(t, err)

	second := commitFiles(t, origin, repo, "add door rules", "rules/doors.yaml")

	files, err = src.Resolve(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(cloneDir, "rules", "doors.yaml"),
		filepath.Join(cloneDir, "rules", "walls.yaml"),
	}, files)

	head, err := src.Head()
	require.NoError(t, err)
	assert.NotEqual(t, first, head)
	assert.Equal(t, second, head)

	// Already up to date is not an error.
	_, err = src.Resolve(ctx)
	require.NoError(t, err)
}

func TestGitSource_ReusesExistingClone(t *testing.T) {
	origin, _ := originRepo(t)
	cloneDir := filepath.Join(t.TempDir(), "clone")
	cfg := &config.GitConfig{Repository: origin, Branch: "master", LocalDir: cloneDir}

	src, err := NewGitSource(cfg, "rules/*.yaml")
	require.NoError(t, err)
	_, err = src.Resolve(context.Background())
	require.NoError(t, err)

	again, err := NewGitSource(cfg, "rules/*.yaml")
	require.NoError(t, err)
	files, err := again.Resolve(context.Background())
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestGitSource_CloneFailure(t *testing.T) {
	src, err := NewGitSource(&config.GitConfig{
		Repository: filepath.Join(t.TempDir(), "does-not-exist"),
		LocalDir:   filepath.Join(t.TempDir(), "clone"),
	})
	require.NoError(t, err)

	_, err = src.Resolve(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to clone repository")
}

func TestGitSource_OpenBrokenClone(t *testing.T) {
	cloneDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(cloneDir, ".git"), 0o755))

	src, err := NewGitSource(&config.GitConfig{Repository: "unused", LocalDir: cloneDir})
	require.NoError(t, err)

	_, err = src.Resolve(context.Background())
	assert.Error(t, err)
}
