package store

import (
	"context"
	"strings"
	"sync"

	"github.com/go-ports/ecorewards/internal/handle"
)

// Memory is an in-process Store. Pushes are delivered synchronously on the
// goroutine that calls Subscribe, Put or Delete.
type Memory struct {
	mu      sync.Mutex
	records map[string]map[string]any
	subs    map[string]map[int]func(Push)
	nextID  int
}

var (
	_ Store  = (*Memory)(nil)
	_ Writer = (*Memory)(nil)
)

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{
		records: make(map[string]map[string]any),
		subs:    make(map[string]map[int]func(Push)),
	}
}

// Subscribe implements Store.
func (m *Memory) Subscribe(_ context.Context, path string, fn func(Push)) (*handle.Handle, error) {
	path, err := cleanPath(path)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	id := m.nextID
	m.nextID++
	if m.subs[path] == nil {
		m.subs[path] = make(map[int]func(Push))
	}
	m.subs[path][id] = fn
	initial := m.pushLocked(path)
	m.mu.Unlock()

	fn(initial)

	return handle.New(func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs[path], id)
		if len(m.subs[path]) == 0 {
			delete(m.subs, path)
		}
	}), nil
}

// Put implements Writer.
func (m *Memory) Put(_ context.Context, path string, data map[string]any) error {
	path, err := cleanPath(path)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.records[path] = cloneMap(data)
	fns, push := m.listenersLocked(path)
	m.mu.Unlock()

	for _, fn := range fns {
		fn(push)
	}
	return nil
}

// Delete implements Writer.
func (m *Memory) Delete(_ context.Context, path string) error {
	path, err := cleanPath(path)
	if err != nil {
		return err
	}
	m.mu.Lock()
	delete(m.records, path)
	fns, push := m.listenersLocked(path)
	m.mu.Unlock()

	for _, fn := range fns {
		fn(push)
	}
	return nil
}

// Subscribers returns the number of live registrations for path. An invalid
// path has none.
func (m *Memory) Subscribers(path string) int {
	path, err := cleanPath(path)
	if err != nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs[path])
}

func (m *Memory) listenersLocked(path string) ([]func(Push), Push) {
	fns := make([]func(Push), 0, len(m.subs[path]))
	for _, fn := range m.subs[path] {
		fns = append(fns, fn)
	}
	return fns, m.pushLocked(path)
}

func (m *Memory) pushLocked(path string) Push {
	data, ok := m.records[path]
	if !ok {
		return Push{}
	}
	return Push{Exists: true, Data: cloneMap(data)}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// cleanPath trims surrounding slashes and rejects empty or dotted segments.
func cleanPath(path string) (string, error) {
	path = strings.Trim(strings.TrimSpace(path), "/")
	if path == "" {
		return "", ErrInvalidPath
	}
	for _, seg := range strings.Split(path, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return "", ErrInvalidPath
		}
	}
	return path, nil
}

func cloneMap(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
