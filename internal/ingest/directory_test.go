package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/joseph-ayodele/contracts-tracker/internal/common"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestReadDirectory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "mietvertrag.txt"), "\xEF\xBB\xBFMietvertrag")
	writeFile(t, filepath.Join(root, "sub", "handy.TXT"), "Mobilfunkvertrag")
	writeFile(t, filepath.Join(root, "scan.pdf"), "%PDF")
	writeFile(t, filepath.Join(root, ".hidden", "secret.txt"), "x")
	writeFile(t, filepath.Join(root, "big.txt"), "0123456789012345678901234567890123456789")

	r := NewReader(32, nil)
	results, stats, err := r.ReadDirectory(context.Background(), root, nil, true)
	if err != nil {
		t.Fatalf("ReadDirectory: %v", err)
	}
	if stats.Matched != 3 || stats.Succeeded != 2 || stats.Failed != 1 {
		t.Errorf("stats = %+v", stats)
	}

	byName := map[string]FileResult{}
	for _, res := range results {
		byName[filepath.Base(res.Path)] = res
	}
	if got := byName["mietvertrag.txt"].Doc.Text; got != "Mietvertrag" {
		t.Errorf("BOM not stripped: %q", got)
	}
	if got := byName["handy.TXT"].Doc.Filename; got != "handy.TXT" {
		t.Errorf("filename = %q", got)
	}
	if byName["big.txt"].Err == "" {
		t.Error("oversized file should fail")
	}
	if _, ok := byName["secret.txt"]; ok {
		t.Error("hidden directories should be skipped")
	}
}

func TestReadDirectoryErrors(t *testing.T) {
	r := NewReader(0, nil)
	if _, _, err := r.ReadDirectory(context.Background(), " ", nil, true); err == nil {
		t.Error("blank root should fail")
	}
	if _, _, err := r.ReadDirectory(context.Background(), filepath.Join(t.TempDir(), "missing"), nil, true); err == nil {
		t.Error("missing root should fail")
	}
	if _, err := r.ReadFile(t.TempDir()); !errors.Is(err, common.ErrInvalidInput) {
		t.Errorf("directory as file: %v", err)
	}
}

func TestAllowedExt(t *testing.T) {
	tests := map[string]bool{".txt": true, "TXT": true, "md": true, ".pdf": false, "": false}
	for ext, want := range tests {
		if got := AllowedExt(ext); got != want {
			t.Errorf("AllowedExt(%q) = %v, want %v", ext, got, want)
		}
	}
}

func TestStartWatcherInitialScan(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "a")
	writeFile(t, filepath.Join(root, "b.pdf"), "b")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	events, _, err := StartWatcher(ctx, WatchConfig{Roots: []string{root}, InitialScan: true}, nil)
	if err != nil {
		t.Fatalf("StartWatcher: %v", err)
	}
	select {
	case p := <-events:
		if filepath.Base(p) != "a.txt" {
			t.Errorf("first event = %s", p)
		}
	case <-ctx.Done():
		t.Fatal("no initial event")
	}

	if _, _, err := StartWatcher(ctx, WatchConfig{}, nil); err == nil {
		t.Error("no roots should fail")
	}
}
