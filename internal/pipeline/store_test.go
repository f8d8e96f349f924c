package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func sampleArtifacts() map[string]string {
	return map[string]string{
		"index.html": "<!DOCTYPE html><html></html>",
		"style.css":  "body { margin: 0; }",
		"game.js":    "function update() { requestAnimationFrame(update); }",
	}
}

func TestStoreSave(t *testing.T) {
	s := NewStore(t.TempDir())
	dir, err := s.Save(sampleArtifacts(), "Space Pong!")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if filepath.Base(dir) != "space-pong" {
		t.Errorf("unexpected directory name %q", filepath.Base(dir))
	}
	for name, want := range sampleArtifacts() {
		got, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if string(got) != want {
			t.Errorf("%s content mismatch", name)
		}
	}
}

func TestStoreSaveFailed(t *testing.T) {
	s := NewStore(t.TempDir())
	dir, err := s.SaveFailed(sampleArtifacts(), 2)
	if err != nil {
		t.Fatalf("SaveFailed: %v", err)
	}
	if filepath.Base(filepath.Dir(dir)) != "failed" {
		t.Errorf("attempt dir %q not under failed/", dir)
	}
	if !strings.HasSuffix(filepath.Base(dir), "-attempt-2") {
		t.Errorf("unexpected attempt dir name %q", filepath.Base(dir))
	}
	if _, err := os.Stat(filepath.Join(dir, "game.js")); err != nil {
		t.Errorf("game.js not written: %v", err)
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Space Pong", "space-pong"},
		{"  Brick--Breaker 2 ", "brick-breaker-2"},
		{"!!!", "unnamed-game"},
		{"", "unnamed-game"},
	}
	for _, tt := range tests {
		if got := slugify(tt.in); got != tt.want {
			t.Errorf("slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
