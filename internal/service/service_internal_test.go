package service

// White-box testing required: ensureIndexed decides whether to rebuild the
// listing index from a fingerprint kept in the meta table. Whether a rebuild
// was skipped is not observable through the public API.

import (
	"context"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/go-ports/ecorewards/internal/catalog"
	"github.com/go-ports/ecorewards/internal/config"
)

func TestEnsureIndexed_SkipsUnchangedDataset(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()

	svc, err := New(t.TempDir())
	c.Assert(err, qt.IsNil)
	defer svc.Close()

	fp, ok, err := svc.database.GetMeta(ctx, fingerprintKey)
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsTrue)
	c.Assert(fp, qt.Not(qt.Equals), "")

	// Empty the index behind the fingerprint's back.
	_, err = svc.database.ReplaceListings(ctx, nil)
	c.Assert(err, qt.IsNil)

	c.Assert(svc.ensureIndexed(ctx, catalog.Seed()), qt.IsNil)
	indexed, err := svc.database.ListListings(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(indexed, qt.HasLen, 0)

	// A changed dataset forces a rebuild.
	c.Assert(svc.database.SetMeta(ctx, fingerprintKey, "stale"), qt.IsNil)
	c.Assert(svc.ensureIndexed(ctx, catalog.Seed()), qt.IsNil)
	indexed, err = svc.database.ListListings(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(indexed, qt.HasLen, 6)
}

func TestLoadListings_HappyPath(t *testing.T) {
	c := qt.New(t)

	got, err := loadListings(t.TempDir(), config.Default())
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.DeepEquals, catalog.Seed())

	cfg := config.Default()
	cfg.Listings.Path = "missing.yaml"
	_, err = loadListings(t.TempDir(), cfg)
	c.Assert(err, qt.IsNotNil)
}

func TestReindex_HappyPath(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()

	svc, err := New(t.TempDir())
	c.Assert(err, qt.IsNil)
	defer svc.Close()

	_, err = svc.database.ReplaceListings(ctx, nil)
	c.Assert(err, qt.IsNil)

	res, err := svc.Reindex(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(res, qt.Equals, ReindexResult{Count: 6, Dim: 20})

	indexed, err := svc.database.ListListings(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(indexed, qt.HasLen, 6)

	fp, _, err := svc.database.GetMeta(ctx, fingerprintKey)
	c.Assert(err, qt.IsNil)
	c.Assert(fp, qt.Not(qt.Equals), "")
}
