package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/getmockd/mockd/pkg/mapping"
)

// DirectoryLoader loads static mapping documents from a directory
// (spec.md 6, "--read-static-mappings <dir>"), optionally recursing into
// subdirectories, and tracks each file's modification time for Watcher.
type DirectoryLoader struct {
	Path      string
	Recursive bool

	mu    sync.RWMutex
	files map[string]time.Time
}

// LoadResult is the outcome of one directory load: the mappings collected
// from every file that parsed, plus any per-file errors for files that
// didn't (a malformed static mapping file never prevents the rest of the
// directory from loading).
type LoadResult struct {
	Mappings  []*mapping.Mapping
	FileCount int
	Errors    []LoadError
}

// LoadError is one file's load failure.
type LoadError struct {
	Path    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Path, e.Message, e.Err)
}

// NewDirectoryLoader returns a loader over path, recursing into
// subdirectories by default.
func NewDirectoryLoader(path string) *DirectoryLoader {
	return &DirectoryLoader{Path: path, Recursive: true, files: make(map[string]time.Time)}
}

// Load reads every .yaml/.yml/.json file under Path and converts it.
func (d *DirectoryLoader) Load() (*LoadResult, error) {
	info, err := os.Stat(d.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("static mappings directory not found: %s", d.Path)
		}
		return nil, fmt.Errorf("failed to access %s: %w", d.Path, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", d.Path)
	}

	files, err := d.findMappingFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", d.Path, err)
	}

	result := &LoadResult{}
	for _, file := range files {
		mappings, err := LoadFromFile(file)
		if err != nil {
			result.Errors = append(result.Errors, LoadError{Path: file, Message: "failed to load", Err: err})
			continue
		}

		if fi, statErr := os.Stat(file); statErr == nil {
			d.mu.Lock()
			d.files[file] = fi.ModTime()
			d.mu.Unlock()
		}

		result.Mappings = append(result.Mappings, mappings...)
		result.FileCount++
	}

	return result, nil
}

func (d *DirectoryLoader) findMappingFiles() ([]string, error) {
	var files []string
	walkFn := func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if !d.Recursive && path != d.Path {
				return filepath.SkipDir
			}
			// __files is the convention for respgen.Generator.FilesRoot's
			// body-file payloads, never itself a directory of mapping docs.
			if info.Name() == "__files" {
				return filepath.SkipDir
			}
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml", ".json":
			files = append(files, path)
		}
		return nil
	}
	if err := filepath.Walk(d.Path, walkFn); err != nil {
		return nil, err
	}
	return files, nil
}

// HasChanges reports which tracked files have been modified or removed
// since the last Load.
func (d *DirectoryLoader) HasChanges() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var changed []string
	for path, modTime := range d.files {
		info, err := os.Stat(path)
		if err != nil {
			changed = append(changed, path)
			continue
		}
		if info.ModTime().After(modTime) {
			changed = append(changed, path)
		}
	}
	return changed
}

// FilesRoot returns the "__files" subdirectory alongside this loader's
// mappings directory, the convention respgen.Generator.FilesRoot expects.
func (d *DirectoryLoader) FilesRoot() string {
	return filepath.Join(d.Path, "__files")
}

// WatchInterval is the polling period for Watcher, grounded on the same
// interval the teacher's file watcher polls at.
const WatchInterval = 2 * time.Second

// Watcher polls a DirectoryLoader for changes, re-running Load on each
// tick where HasChanges reports a modified or removed file and pushing the
// result to Changes. Files added since the last Load are not detected by
// HasChanges, so they alone do not trigger a reload. This is deliberately
// fsnotify-free (spec.md's Non-goals exclude clustering/external infra
// dependencies, and a polling watcher keeps --watch-static-mappings
// dependency-free).
type Watcher struct {
	loader   *DirectoryLoader
	interval time.Duration
	Changes  chan *LoadResult

	mu      sync.Mutex
	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
}

// NewWatcher returns a Watcher over loader, polling every WatchInterval.
func NewWatcher(loader *DirectoryLoader) *Watcher {
	return &Watcher{
		loader:   loader,
		interval: WatchInterval,
		Changes:  make(chan *LoadResult, 1),
	}
}

// Start begins polling in a background goroutine. Calling Start twice
// without an intervening Stop is a no-op.
func (w *Watcher) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return
	}
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.running = true
	go w.loop(w.stopCh, w.doneCh)
}

// Stop ends polling and waits for the background goroutine to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	close(w.stopCh)
	w.running = false
	doneCh := w.doneCh
	w.mu.Unlock()

	<-doneCh
}

func (w *Watcher) loop(stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if len(w.loader.HasChanges()) == 0 {
				continue
			}
			result, err := w.loader.Load()
			if err != nil {
				continue
			}
			select {
			case w.Changes <- result:
			default:
			}
		}
	}
}
