package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// FileSource expands file paths and glob patterns.
type FileSource struct {
	root     string
	patterns []string
}

// NewFileSource creates a source for patterns. Relative patterns are
// resolved against root, or the working directory when root is empty.
func NewFileSource(root string, patterns ...string) *FileSource {
	return &FileSource{root: root, patterns: patterns}
}

func (s *FileSource) Name() string {
	if s.root == "" {
		return "file"
	}
	return "file:" + s.root
}

// Resolve expands every pattern. A plain path must exist, a glob may match
// nothing as long as the source as a whole yields at least one file.
func (s *FileSource) Resolve(ctx context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	var files []string

	for _, pattern := range s.patterns {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		full := pattern
		if s.root != "" && !filepath.IsAbs(pattern) {
			full = filepath.Join(s.root, pattern)
		}

		var matches []string
		if hasMeta(pattern) {
			var err error
			matches, err = doublestar.FilepathGlob(full, doublestar.WithFilesOnly())
			if err != nil {
				return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
			}
			sort.Strings(matches)
		} else {
			info, err := os.Stat(full)
			if err != nil {
				return nil, fmt.Errorf("rule file %q: %w", pattern, err)
			}
			if info.IsDir() {
				return nil, fmt.Errorf("rule file %q is a directory", pattern)
			}
			matches = []string{full}
		}

		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}

	if len(files) == 0 {
		return nil, ErrNoRuleFiles
	}
	return files, nil
}

func hasMeta(pattern string) bool {
	for _, c := range pattern {
		switch c {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}
