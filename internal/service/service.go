// Package service implements the rewards Service orchestrator that wires
// together configuration, database, record store, catalog, sessions and marks.
package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/go-ports/ecorewards/internal/auth"
	"github.com/go-ports/ecorewards/internal/badges"
	"github.com/go-ports/ecorewards/internal/catalog"
	"github.com/go-ports/ecorewards/internal/config"
	"github.com/go-ports/ecorewards/internal/db"
	"github.com/go-ports/ecorewards/internal/entitlement"
	"github.com/go-ports/ecorewards/internal/marks"
	"github.com/go-ports/ecorewards/internal/models"
	"github.com/go-ports/ecorewards/internal/search"
	"github.com/go-ports/ecorewards/internal/store"
)

// RecordStore is a live record store that can also be written.
type RecordStore interface {
	store.Store
	store.Writer
}

// Service orchestrates listing queries and entitlement tracking for one home.
type Service struct {
	Home   string
	Config *config.Config

	database *db.DB
	records  RecordStore
	catalog  *catalog.Catalog
	marks    *marks.Marks
}

// New initialises a Service rooted at home.
// If home is empty it is resolved via config.ResolveHome.
func New(home string) (*Service, error) {
	if home == "" {
		home = config.ResolveHome("").Path
	}
	if err := os.MkdirAll(home, 0o755); err != nil {
		return nil, fmt.Errorf("service.New: create home: %w", err)
	}

	cfg, err := config.Load(ConfigPath(home))
	if err != nil {
		return nil, fmt.Errorf("service.New: load config: %w", err)
	}

	listings, err := loadListings(home, cfg)
	if err != nil {
		return nil, fmt.Errorf("service.New: %w", err)
	}
	cat, err := catalog.New(listings)
	if err != nil {
		return nil, fmt.Errorf("service.New: %w", err)
	}

	database, err := db.Open(filepath.Join(home, "index.db"))
	if err != nil {
		return nil, fmt.Errorf("service.New: open db: %w", err)
	}

	s := &Service{
		Home:     home,
		Config:   cfg,
		database: database,
		catalog:  cat,
		marks:    marks.New(),
	}
	if err := s.ensureIndexed(context.Background(), listings); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("service.New: %w", err)
	}

	switch cfg.Store.Driver {
	case config.DriverFiles:
		s.records = store.NewFiles(filepath.Join(home, "records"))
	default:
		s.records = store.NewSQLite(database, cfg.Store.PollInterval)
	}
	return s, nil
}

// ConfigPath returns the config file location for home.
func ConfigPath(home string) string {
	return filepath.Join(home, "config.yaml")
}

// Close releases all resources held by the service.
func (s *Service) Close() error {
	return s.database.Close()
}

// loadListings reads the configured dataset, or the built-in seed when none
// is configured. Relative paths are resolved against home.
func loadListings(home string, cfg *config.Config) ([]models.Listing, error) {
	path := cfg.Listings.Path
	if path == "" {
		return catalog.Seed(), nil
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(home, path)
	}
	return catalog.Load(path)
}

const fingerprintKey = "catalog_fingerprint"

// ensureIndexed re-indexes the catalog when the dataset changed since the
// last run.
func (s *Service) ensureIndexed(ctx context.Context, listings []models.Listing) error {
	b, err := json.Marshal(listings)
	if err != nil {
		return err
	}
	sum := sha256.Sum256(b)
	fingerprint := hex.EncodeToString(sum[:])

	stored, ok, err := s.database.GetMeta(ctx, fingerprintKey)
	if err != nil {
		return err
	}
	if ok && stored == fingerprint {
		return nil
	}
	log.Debug().Int("listings", len(listings)).Msg("service: indexing catalog")
	if err := s.catalog.Index(ctx, s.database); err != nil {
		return err
	}
	return s.database.SetMeta(ctx, fingerprintKey, fingerprint)
}

// ReindexResult summarises a Reindex run.
type ReindexResult struct {
	Count int
	Dim   int
}

// Reindex rebuilds the listing table and similarity vectors unconditionally.
func (s *Service) Reindex(ctx context.Context) (ReindexResult, error) {
	if err := s.database.SetMeta(ctx, fingerprintKey, ""); err != nil {
		return ReindexResult{}, fmt.Errorf("service.Reindex: %w", err)
	}
	listings := s.catalog.Listings()
	if err := s.ensureIndexed(ctx, listings); err != nil {
		return ReindexResult{}, fmt.Errorf("service.Reindex: %w", err)
	}
	return ReindexResult{Count: len(listings), Dim: s.catalog.Dim()}, nil
}

// ---------------------------------------------------------------------------
// Listings
// ---------------------------------------------------------------------------

// Listings returns every listing in dataset order.
func (s *Service) Listings() []models.Listing {
	return s.catalog.Listings()
}

// Listing returns the listing with the given ID.
func (s *Service) Listing(id string) (models.Listing, error) {
	return s.catalog.Get(id)
}

// Query runs the faceted query over the catalog.
func (s *Service) Query(state models.QueryState) []models.Listing {
	return search.Query(s.catalog.Listings(), state)
}

// Similar returns up to k listings similar to id.
func (s *Service) Similar(ctx context.Context, id string, k int) ([]models.Listing, error) {
	return s.catalog.Similar(ctx, s.database, id, k)
}

// Marks returns the service's favorite and saved sets.
func (s *Service) Marks() *marks.Marks {
	return s.marks
}

// ---------------------------------------------------------------------------
// Entitlements
// ---------------------------------------------------------------------------

// SetEntitlement writes p's record, replacing it wholesale. Live
// registrations for p observe the change as a push.
func (s *Service) SetEntitlement(ctx context.Context, p models.Principal, snap models.EntitlementSnapshot) error {
	if !p.SignedIn() {
		return fmt.Errorf("service.SetEntitlement: %w: empty principal", store.ErrInvalidPath)
	}
	if err := s.records.Put(ctx, s.recordPath(p), entitlement.Encode(snap)); err != nil {
		return fmt.Errorf("service.SetEntitlement: %w", err)
	}
	return nil
}

// ClearEntitlement deletes p's record.
func (s *Service) ClearEntitlement(ctx context.Context, p models.Principal) error {
	if !p.SignedIn() {
		return fmt.Errorf("service.ClearEntitlement: %w: empty principal", store.ErrInvalidPath)
	}
	if err := s.records.Delete(ctx, s.recordPath(p)); err != nil {
		return fmt.Errorf("service.ClearEntitlement: %w", err)
	}
	return nil
}

// Entitlement opens a session for p and returns the first settled state.
func (s *Service) Entitlement(ctx context.Context, p models.Principal) (entitlement.State, error) {
	sess := s.NewSession(auth.NewLocalProvider(p))
	defer sess.Close()

	settled := make(chan entitlement.State, 1)
	h := sess.Subscriber.Listen(func(st entitlement.State) {
		if st.Loading {
			return
		}
		select {
		case settled <- st:
		default:
		}
	})
	defer h.Dispose()

	sess.Start(ctx)
	if st := sess.Subscriber.State(); !st.Loading {
		return st, nil
	}
	select {
	case st := <-settled:
		return st, nil
	case <-ctx.Done():
		return entitlement.State{}, ctx.Err()
	}
}

// Badges evaluates the default navigation for snap.
func (s *Service) Badges(snap models.EntitlementSnapshot) map[string]models.Badge {
	return badges.Evaluate(snap, badges.DefaultNav)
}

// Watch tracks p until ctx is done, calling fn on every state change.
func (s *Service) Watch(ctx context.Context, p models.Principal, fn func(entitlement.State)) error {
	sess := s.NewSession(auth.NewLocalProvider(p))
	defer sess.Close()

	h := sess.Subscriber.Listen(fn)
	defer h.Dispose()

	sess.Start(ctx)
	<-ctx.Done()
	return nil
}

func (s *Service) recordPath(p models.Principal) string {
	return p.RecordPath(s.Config.Store.Collection)
}
