package store

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/go-ports/ecorewards/internal/db"
	"github.com/go-ports/ecorewards/internal/handle"
)

// DefaultPollInterval is how often SQLite registrations check for changes.
const DefaultPollInterval = 500 * time.Millisecond

// SQLite is a Store backed by the documents table. Each registration runs a
// poller that pushes whenever the record's version changes, so writes from
// other processes sharing the database file are observed too.
type SQLite struct {
	database *db.DB
	interval time.Duration
}

var (
	_ Store  = (*SQLite)(nil)
	_ Writer = (*SQLite)(nil)
)

// NewSQLite returns a Store over database polling every interval
// (DefaultPollInterval when interval <= 0).
func NewSQLite(database *db.DB, interval time.Duration) *SQLite {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &SQLite{database: database, interval: interval}
}

// Subscribe implements Store. The current record is read and delivered before
// Subscribe returns; a failure to read it is returned as an error.
func (s *SQLite) Subscribe(ctx context.Context, path string, fn func(Push)) (*handle.Handle, error) {
	path, err := cleanPath(path)
	if err != nil {
		return nil, err
	}
	doc, err := s.database.GetDocument(ctx, path)
	if err != nil {
		return nil, err
	}
	fn(documentPush(doc))

	stop := make(chan struct{})
	go s.poll(path, doc.Version, fn, stop)

	return handle.New(func() { close(stop) }), nil
}

func (s *SQLite) poll(path string, version int64, fn func(Push), stop <-chan struct{}) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	failing := false
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		doc, err := s.database.GetDocument(context.Background(), path)
		if err != nil {
			// Report the first failure of a streak only.
			if !failing {
				log.Warn().Err(err).Str("path", path).Msg("store: poll failed")
				if !stopped(stop) {
					fn(Push{Err: err})
				}
			}
			failing = true
			continue
		}
		if doc.Version == version && !failing {
			continue
		}
		failing = false
		version = doc.Version
		if stopped(stop) {
			return
		}
		fn(documentPush(doc))
	}
}

// Put implements Writer.
func (s *SQLite) Put(ctx context.Context, path string, data map[string]any) error {
	path, err := cleanPath(path)
	if err != nil {
		return err
	}
	_, err = s.database.PutDocument(ctx, path, data)
	return err
}

// Delete implements Writer.
func (s *SQLite) Delete(ctx context.Context, path string) error {
	path, err := cleanPath(path)
	if err != nil {
		return err
	}
	_, err = s.database.DeleteDocument(ctx, path)
	return err
}

func documentPush(doc db.Document) Push {
	if !doc.Exists {
		return Push{}
	}
	return decodeRecord([]byte(doc.Data))
}

func stopped(stop <-chan struct{}) bool {
	select {
	case <-stop:
		return true
	default:
		return false
	}
}
