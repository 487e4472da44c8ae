// Package store defines the remote record store consumed by the entitlement
// subscriber and ships the adapters used by the CLI and tests.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-ports/ecorewards/internal/handle"
)

// Push is one delivery from a live registration. Exists is false when the
// record has not been created yet. Err reports a failure on the link; Exists
// and Data are meaningless when it is set.
type Push struct {
	Exists bool
	Data   map[string]any
	Err    error
}

// Store delivers live updates for records addressed by path.
type Store interface {
	// Subscribe registers fn for the record at path. The current value is
	// delivered first, then every change, until the returned handle is
	// disposed. Pushes for one registration arrive in emission order.
	Subscribe(ctx context.Context, path string, fn func(Push)) (*handle.Handle, error)
}

// Writer stores whole records. Adapters that can be written through the CLI
// implement it alongside Store.
type Writer interface {
	Put(ctx context.Context, path string, data map[string]any) error
	Delete(ctx context.Context, path string) error
}

// ErrInvalidPath is returned for empty or malformed record paths.
var ErrInvalidPath = errors.New("invalid record path")

// decodeRecord turns a stored JSON document into a Push.
func decodeRecord(raw []byte) Push {
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return Push{Err: fmt.Errorf("decode record: %w", err)}
	}
	return Push{Exists: true, Data: data}
}
