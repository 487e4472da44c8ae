// Package db manages the SQLite database holding entitlement records and the
// listing index (with sqlite-vec similarity search).
package db

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3" // registers the sqlite3 driver with database/sql
	"github.com/rs/zerolog/log"

	"github.com/go-ports/ecorewards/internal/models"
)

func init() { //nolint:gochecknoinits // registers sqlite-vec extension with go-sqlite3 before any DB connection opens
	vec.Auto()
}

// ErrDimensionMismatch is returned when a listing vector's dimension differs
// from the one the vector table was created with.
var ErrDimensionMismatch = errors.New("listing vector dimension mismatch")

// DB wraps a *sql.DB with the path it was opened from.
type DB struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) the SQLite database at path and initialises the schema.
func Open(path string) (*DB, error) {
	sqldb, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("db.Open: %w", err)
	}
	d := &DB{db: sqldb, path: path}
	if err := d.createSchema(); err != nil {
		_ = sqldb.Close()
		return nil, fmt.Errorf("db.Open createSchema: %w", err)
	}
	return d, nil
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// Path returns the file the database was opened from.
func (d *DB) Path() string { return d.path }

// ---------------------------------------------------------------------------
// Schema
// ---------------------------------------------------------------------------

func (d *DB) createSchema() error {
	stmts := []string{
		// data is NULL for deleted records so that version keeps increasing
		// across delete/re-create.
		`CREATE TABLE IF NOT EXISTS documents (
			path       TEXT PRIMARY KEY,
			data       TEXT,
			version    INTEGER NOT NULL DEFAULT 0,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS listings (
			rowid    INTEGER PRIMARY KEY AUTOINCREMENT,
			id       TEXT UNIQUE NOT NULL,
			position INTEGER NOT NULL,
			data     TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
	}

	for _, s := range stmts {
		if _, err := d.db.Exec(s); err != nil {
			return fmt.Errorf("createSchema exec: %w\nSQL: %s", err, s)
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Documents
// ---------------------------------------------------------------------------

// Document is a stored record. Exists is false for records that were never
// written or were deleted; Version still orders such tombstones.
type Document struct {
	Path    string
	Data    string
	Version int64
	Exists  bool
}

// GetDocument returns the record at path. A path that was never written
// returns a zero-version Document with Exists false.
func (d *DB) GetDocument(ctx context.Context, path string) (Document, error) {
	var data sql.NullString
	var version int64
	err := d.db.QueryRowContext(ctx,
		`SELECT data, version FROM documents WHERE path = ?`, path,
	).Scan(&data, &version)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{Path: path}, nil
	}
	if err != nil {
		return Document{}, fmt.Errorf("GetDocument: %w", err)
	}
	return Document{Path: path, Data: data.String, Version: version, Exists: data.Valid}, nil
}

// PutDocument stores data at path and returns the new version.
func (d *DB) PutDocument(ctx context.Context, path string, data map[string]any) (int64, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return 0, fmt.Errorf("PutDocument: marshal: %w", err)
	}
	return d.writeDocument(ctx, path, sql.NullString{String: string(b), Valid: true})
}

// DeleteDocument marks the record at path as deleted. Returns the new version.
func (d *DB) DeleteDocument(ctx context.Context, path string) (int64, error) {
	return d.writeDocument(ctx, path, sql.NullString{})
}

func (d *DB) writeDocument(ctx context.Context, path string, data sql.NullString) (int64, error) {
	var version int64
	err := d.db.QueryRowContext(ctx, `
		INSERT INTO documents (path, data, version, updated_at) VALUES (?, ?, 1, ?)
		ON CONFLICT(path) DO UPDATE SET
			data = excluded.data,
			version = documents.version + 1,
			updated_at = excluded.updated_at
		RETURNING version`,
		path, data, time.Now().UTC().Format(time.RFC3339),
	).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("writeDocument %s: %w", path, err)
	}
	return version, nil
}

// ---------------------------------------------------------------------------
// Listings
// ---------------------------------------------------------------------------

// ReplaceListings overwrites the listing index with listings, preserving
// their order. Vectors are dropped; callers re-insert them.
func (d *DB) ReplaceListings(ctx context.Context, listings []models.Listing) (map[string]int64, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("ReplaceListings: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM listings`); err != nil {
		return nil, fmt.Errorf("ReplaceListings: clear: %w", err)
	}

	rowids := make(map[string]int64, len(listings))
	for i := range listings {
		b, err := json.Marshal(listings[i])
		if err != nil {
			return nil, fmt.Errorf("ReplaceListings: marshal %s: %w", listings[i].ID, err)
		}
		res, err := tx.ExecContext(ctx,
			`INSERT INTO listings (id, position, data) VALUES (?, ?, ?)`,
			listings[i].ID, i, string(b),
		)
		if err != nil {
			return nil, fmt.Errorf("ReplaceListings: insert %s: %w", listings[i].ID, err)
		}
		rowid, err := res.LastInsertId()
		if err != nil {
			return nil, err
		}
		rowids[listings[i].ID] = rowid
	}

	if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS listings_vec`); err != nil {
		return nil, fmt.Errorf("ReplaceListings: drop vectors: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM meta WHERE key = 'listing_dim'`); err != nil {
		return nil, fmt.Errorf("ReplaceListings: reset dim: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("ReplaceListings: commit: %w", err)
	}
	return rowids, nil
}

// ListListings returns the indexed listings in dataset order.
func (d *DB) ListListings(ctx context.Context) ([]models.Listing, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT data FROM listings ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("ListListings: %w", err)
	}
	defer rows.Close()

	var out []models.Listing
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("ListListings: scan: %w", err)
		}
		var l models.Listing
		if err := json.Unmarshal([]byte(raw), &l); err != nil {
			return nil, fmt.Errorf("ListListings: decode: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// ---------------------------------------------------------------------------
// Vector table helpers
// ---------------------------------------------------------------------------

func (d *DB) createVecTable(ctx context.Context, dim int) error {
	_, err := d.db.ExecContext(ctx, fmt.Sprintf(
		`CREATE VIRTUAL TABLE IF NOT EXISTS listings_vec USING vec0(
			rowid INTEGER PRIMARY KEY,
			embedding float[%d]
		)`, dim,
	))
	return err
}

// HasVecTable returns true if the listings_vec table exists.
func (d *DB) HasVecTable(ctx context.Context) (bool, error) {
	var name string
	err := d.db.QueryRowContext(ctx,
		`SELECT name FROM sqlite_master WHERE type='table' AND name='listings_vec'`,
	).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// EnsureVecTable ensures the vector table exists with the given dimension.
// Returns ErrDimensionMismatch if the stored dimension differs.
func (d *DB) EnsureVecTable(ctx context.Context, dim int) error {
	val, ok, err := d.GetMeta(ctx, "listing_dim")
	if err != nil {
		return err
	}
	if !ok {
		if err := d.SetMeta(ctx, "listing_dim", strconv.Itoa(dim)); err != nil {
			return err
		}
		return d.createVecTable(ctx, dim)
	}
	stored, err := strconv.Atoi(val)
	if err != nil {
		return fmt.Errorf("EnsureVecTable: stored dim %q: %w", val, err)
	}
	if stored != dim {
		return fmt.Errorf("%w: index has %d, got %d", ErrDimensionMismatch, stored, dim)
	}
	return nil
}

// InsertListingVector stores the vector for the listing at rowid.
func (d *DB) InsertListingVector(ctx context.Context, rowid int64, embedding []float32) error {
	_, err := d.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO listings_vec (rowid, embedding) VALUES (?, ?)`,
		rowid, float32sToBytes(embedding),
	)
	return err
}

// Neighbor is a listing ID with its vector distance from the query.
type Neighbor struct {
	ID       string
	Distance float64
}

// NearestListings returns up to k listings closest to query, nearest first.
// Returns nil when no vectors have been indexed.
func (d *DB) NearestListings(ctx context.Context, query []float32, k int) ([]Neighbor, error) {
	ok, err := d.HasVecTable(ctx)
	if err != nil || !ok {
		return nil, err
	}

	rows, err := d.db.QueryContext(ctx, `
		SELECT l.id, v.distance
		FROM listings_vec v
		JOIN listings l ON l.rowid = v.rowid
		WHERE v.embedding MATCH ? AND k = ?
		ORDER BY v.distance, l.position`,
		float32sToBytes(query), k,
	)
	if err != nil {
		return nil, fmt.Errorf("NearestListings: %w", err)
	}
	defer rows.Close()

	var out []Neighbor
	for rows.Next() {
		var n Neighbor
		if err := rows.Scan(&n.ID, &n.Distance); err != nil {
			log.Debug().Err(err).Msg("NearestListings: scan skipped")
			continue
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// ---------------------------------------------------------------------------
// Meta
// ---------------------------------------------------------------------------

// GetMeta returns the value for key, or ("", false, nil) if not set.
func (d *DB) GetMeta(ctx context.Context, key string) (string, bool, error) {
	var val string
	err := d.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = ?`, key).Scan(&val)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

// SetMeta upserts a key-value pair in the meta table.
func (d *DB) SetMeta(ctx context.Context, key, value string) error {
	_, err := d.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)`, key, value,
	)
	return err
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// float32sToBytes encodes a []float32 as little-endian bytes (sqlite-vec wire format).
func float32sToBytes(floats []float32) []byte {
	b := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(f))
	}
	return b
}
