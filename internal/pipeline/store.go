package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// Store persists generated artifacts on disk.
type Store struct {
	baseDir string // defaults to ./output
}

// NewStore creates a Store rooted at baseDir.
func NewStore(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// BaseDir returns the store's root directory.
func (s *Store) BaseDir() string {
	return s.baseDir
}

// failedDir returns the directory for discarded generation attempts.
func (s *Store) failedDir() string {
	return filepath.Join(s.baseDir, "failed")
}

// Save writes the artifacts of a successful (or best-effort final) run to
// <base>/<slug-of-title>/ and returns that directory.
func (s *Store) Save(artifacts map[string]string, title string) (string, error) {
	dir := filepath.Join(s.baseDir, slugify(title))
	if err := writeArtifacts(dir, artifacts); err != nil {
		return "", err
	}
	return dir, nil
}

// SaveFailed writes a failed generation attempt to
// <base>/failed/<timestamp>-attempt-<n>/ for debugging and returns that
// directory.
func (s *Store) SaveFailed(artifacts map[string]string, attempt int) (string, error) {
	name := fmt.Sprintf("%s-attempt-%d", time.Now().UTC().Format("20060102-150405"), attempt)
	dir := filepath.Join(s.failedDir(), name)
	if err := writeArtifacts(dir, artifacts); err != nil {
		return "", err
	}
	return dir, nil
}

func writeArtifacts(dir string, artifacts map[string]string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	for name, content := range artifacts {
		path := filepath.Join(dir, filepath.Base(name))
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

// slugify turns a human-readable title into a filesystem-safe directory name.
func slugify(title string) string {
	s := slugRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(title)), "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "unnamed-game"
	}
	return s
}
