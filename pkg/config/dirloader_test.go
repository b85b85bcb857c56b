package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeMapping(t *testing.T, path, target string) {
	t.Helper()
	body := `{"request": {"type": "exact", "target": "path", "expected": "` + target + `"}, "response": {"status": 200, "body": "ok"}}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", path, err)
	}
}

func TestDirectoryLoader_LoadMergesAllFiles(t *testing.T) {
	dir := t.TempDir()
	writeMapping(t, filepath.Join(dir, "a.json"), "/a")
	writeMapping(t, filepath.Join(dir, "b.json"), "/b")
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	loader := NewDirectoryLoader(dir)
	result, err := loader.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if result.FileCount != 2 || len(result.Mappings) != 2 {
		t.Fatalf("result = %+v", result)
	}
}

func TestDirectoryLoader_SkipsFilesUnderFilesDir(t *testing.T) {
	dir := t.TempDir()
	writeMapping(t, filepath.Join(dir, "a.json"), "/a")
	filesDir := filepath.Join(dir, "__files")
	if err := os.MkdirAll(filesDir, 0o755); err != nil {
		t.Fatalf("mkdir __files: %v", err)
	}
	if err := os.WriteFile(filepath.Join(filesDir, "fixture.json"), []byte(`{"not": "a mapping"}`), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	loader := NewDirectoryLoader(dir)
	result, err := loader.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if result.FileCount != 1 {
		t.Fatalf("expected __files contents to be skipped, got FileCount=%d", result.FileCount)
	}
}

func TestDirectoryLoader_MalformedFileDoesNotBlockOthers(t *testing.T) {
	dir := t.TempDir()
	writeMapping(t, filepath.Join(dir, "good.json"), "/a")
	if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	loader := NewDirectoryLoader(dir)
	result, err := loader.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if result.FileCount != 1 || len(result.Errors) != 1 {
		t.Fatalf("result = %+v", result)
	}
}

func TestDirectoryLoader_FilesRoot(t *testing.T) {
	loader := NewDirectoryLoader("/mappings")
	if got := loader.FilesRoot(); got != filepath.Join("/mappings", "__files") {
		t.Errorf("FilesRoot() = %q", got)
	}
}

func TestDirectoryLoader_HasChangesDetectsModification(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.json")
	writeMapping(t, path, "/a")

	loader := NewDirectoryLoader(dir)
	if _, err := loader.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if changed := loader.HasChanges(); len(changed) != 0 {
		t.Fatalf("expected no changes immediately after Load, got %v", changed)
	}

	future := time.Now().Add(time.Hour)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatalf("Chtimes: %v", err)
	}
	if changed := loader.HasChanges(); len(changed) != 1 {
		t.Fatalf("expected 1 changed file, got %v", changed)
	}
}

func TestWatcher_StartStopIsClean(t *testing.T) {
	dir := t.TempDir()
	loader := NewDirectoryLoader(dir)
	w := NewWatcher(loader)
	w.interval = 5 * time.Millisecond
	w.Start()
	w.Start() // second Start should be a no-op, not a deadlock
	time.Sleep(20 * time.Millisecond)
	w.Stop()
}
