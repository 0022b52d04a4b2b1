package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"mercator-hq/ifccheck/pkg/config"
)

// GitSource reads rule files from a git repository.
type GitSource struct {
	config   *config.GitConfig
	patterns []string
	repo     *gogit.Repository
	mu       sync.Mutex
	logger   *slog.Logger
}

// NewGitSource creates a git source. Patterns are relative to the
// repository root.
func NewGitSource(cfg *config.GitConfig, patterns ...string) (*GitSource, error) {
	if cfg == nil {
		return nil, errors.New("git config cannot be nil")
	}
	if cfg.Repository == "" {
		return nil, errors.New("repository URL cannot be empty")
	}
	if cfg.LocalDir == "" {
		return nil, errors.New("local directory cannot be empty")
	}
	if len(patterns) == 0 {
		patterns = []string{"**/*.yaml", "**/*.yml"}
	}
	return &GitSource{
		config:   cfg,
		patterns: patterns,
		logger:   slog.Default().With("component", "source.git"),
	}, nil
}

func (s *GitSource) Name() string {
	return "git:" + s.config.Repository
}

// Resolve brings the working copy up to date and expands the patterns in it.
func (s *GitSource) Resolve(ctx context.Context) ([]string, error) {
	if err := s.sync(ctx); err != nil {
		return nil, err
	}
	return NewFileSource(s.config.LocalDir, s.patterns...).Resolve(ctx)
}

// Head returns the commit the working copy is on.
func (s *GitSource) Head() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.repo == nil {
		return "", errors.New("repository not initialized")
	}
	ref, err := s.repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD: %w", err)
	}
	return ref.Hash().String(), nil
}

func (s *GitSource) sync(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if s.repo == nil {
		if err := s.open(ctx); err != nil {
			return err
		}
		return nil
	}
	return s.pull(ctx)
}

// open reuses an existing working copy or clones a fresh one.
func (s *GitSource) open(ctx context.Context) error {
	if _, err := os.Stat(filepath.Join(s.config.LocalDir, ".git")); err == nil {
		repo, err := gogit.PlainOpen(s.config.LocalDir)
		if err != nil {
			return fmt.Errorf("failed to open existing repo: %w", err)
		}
		s.repo = repo
		return s.pull(ctx)
	}

	if err := os.MkdirAll(s.config.LocalDir, 0o755); err != nil {
		return fmt.Errorf("failed to create repository directory: %w", err)
	}

	opts := &gogit.CloneOptions{
		URL:          s.config.Repository,
		SingleBranch: s.config.Depth > 0,
		Depth:        s.config.Depth,
	}
	if s.config.Branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(s.config.Branch)
	}

	start := time.Now()
	repo, err := gogit.PlainCloneContext(ctx, s.config.LocalDir, false, opts)
	if err != nil {
		return fmt.Errorf("failed to clone repository: %w", err)
	}
	s.repo = repo
	s.logger.Info("rules repository cloned",
		"repository", s.config.Repository,
		"branch", s.config.Branch,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func (s *GitSource) pull(ctx context.Context) error {
	worktree, err := s.repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}

	opts := &gogit.PullOptions{RemoteName: "origin"}
	if s.config.Branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(s.config.Branch)
	}

	err = worktree.PullContext(ctx, opts)
	switch {
	case err == nil:
		s.logger.Info("rules repository updated", "repository", s.config.Repository)
	case errors.Is(err, gogit.NoErrAlreadyUpToDate):
		s.logger.Debug("rules repository already up to date")
	default:
		return fmt.Errorf("failed to pull: %w", err)
	}
	return nil
}

func (s *GitSource) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.config.Timeout > 0 {
		return context.WithTimeout(ctx, s.config.Timeout)
	}
	return context.WithCancel(ctx)
}
