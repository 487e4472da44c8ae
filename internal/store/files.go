package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"

	"github.com/go-ports/ecorewards/internal/handle"
)

// Files is a Store keeping one JSON document per record under a root
// directory ("users/alice" lives at <root>/users/alice.json). Changes are
// pushed from filesystem notifications.
type Files struct {
	root string
}

var (
	_ Store  = (*Files)(nil)
	_ Writer = (*Files)(nil)
)

// NewFiles returns a Files store rooted at root.
func NewFiles(root string) *Files {
	return &Files{root: root}
}

func (f *Files) filePath(path string) string {
	return filepath.Join(f.root, filepath.FromSlash(path)+".json")
}

// Subscribe implements Store.
func (f *Files) Subscribe(_ context.Context, path string, fn func(Push)) (*handle.Handle, error) {
	path, err := cleanPath(path)
	if err != nil {
		return nil, err
	}
	file := f.filePath(path)
	dir := filepath.Dir(file)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("store.Files: create %s: %w", dir, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("store.Files: watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("store.Files: watch %s: %w", dir, err)
	}

	last, push := readFile(file)
	fn(push)

	stop := make(chan struct{})
	go watchFile(watcher, file, last, fn, stop)

	return handle.New(func() {
		close(stop)
		_ = watcher.Close()
	}), nil
}

func watchFile(watcher *fsnotify.Watcher, file string, last []byte, fn func(Push), stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != file {
				continue
			}
			raw, push := readFile(file)
			// Editors and atomic renames emit several events per write.
			if push.Err == nil && bytes.Equal(raw, last) && (raw != nil) == (last != nil) {
				continue
			}
			last = raw
			if stopped(stop) {
				return
			}
			fn(push)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Str("file", file).Msg("store: watch error")
			if !stopped(stop) {
				fn(Push{Err: err})
			}
		}
	}
}

// readFile returns the raw file body (nil when absent) and the matching Push.
func readFile(file string) ([]byte, Push) {
	raw, err := os.ReadFile(file)
	if errors.Is(err, os.ErrNotExist) {
		return nil, Push{}
	}
	if err != nil {
		return nil, Push{Err: fmt.Errorf("read %s: %w", file, err)}
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		// A file being rewritten in place is briefly empty.
		return raw, Push{}
	}
	return raw, decodeRecord(raw)
}

// Put implements Writer. The document is written to a temp file and renamed
// into place so watchers never observe a partial write.
func (f *Files) Put(_ context.Context, path string, data map[string]any) error {
	path, err := cleanPath(path)
	if err != nil {
		return err
	}
	file := f.filePath(path)
	if err := os.MkdirAll(filepath.Dir(file), 0o700); err != nil {
		return fmt.Errorf("store.Files.Put: %w", err)
	}
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("store.Files.Put: marshal: %w", err)
	}
	tmp := file + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return fmt.Errorf("store.Files.Put: %w", err)
	}
	if err := os.Rename(tmp, file); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("store.Files.Put: %w", err)
	}
	return nil
}

// Delete implements Writer. Deleting an absent record is not an error.
func (f *Files) Delete(_ context.Context, path string) error {
	path, err := cleanPath(path)
	if err != nil {
		return err
	}
	if err := os.Remove(f.filePath(path)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("store.Files.Delete: %w", err)
	}
	return nil
}
