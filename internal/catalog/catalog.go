// Package catalog owns the listing dataset: loading, validation, indexing into
// the local database and similar-listing lookup.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/go-ports/ecorewards/internal/db"
	"github.com/go-ports/ecorewards/internal/models"
)

// ErrUnknownListing is returned for an ID that is not in the catalog.
var ErrUnknownListing = errors.New("unknown listing")

// Catalog is an immutable, validated listing collection.
type Catalog struct {
	listings []models.Listing
	byID     map[string]int
	vocab    map[string]int
}

// New validates listings and returns a catalog over a copy of them.
func New(listings []models.Listing) (*Catalog, error) {
	if err := Validate(listings); err != nil {
		return nil, err
	}
	c := &Catalog{
		listings: slices.Clone(listings),
		byID:     make(map[string]int, len(listings)),
	}
	for i := range c.listings {
		c.byID[c.listings[i].ID] = i
	}
	c.vocab = buildVocab(c.listings)
	return c, nil
}

// Listings returns the listings in dataset order. The slice is a copy.
func (c *Catalog) Listings() []models.Listing {
	return slices.Clone(c.listings)
}

// Get returns the listing with the given ID.
func (c *Catalog) Get(id string) (models.Listing, error) {
	i, ok := c.byID[id]
	if !ok {
		return models.Listing{}, fmt.Errorf("%w: %q", ErrUnknownListing, id)
	}
	return c.listings[i], nil
}

// Dim is the length of the similarity vectors.
func (c *Catalog) Dim() int { return len(c.vocab) }

// ---------------------------------------------------------------------------
// Index / Similar
// ---------------------------------------------------------------------------

// Index writes the listings and their feature vectors to database,
// replacing any previous index.
func (c *Catalog) Index(ctx context.Context, database *db.DB) error {
	rowids, err := database.ReplaceListings(ctx, c.listings)
	if err != nil {
		return fmt.Errorf("catalog.Index: %w", err)
	}
	if len(c.listings) == 0 {
		return nil
	}
	if err := database.EnsureVecTable(ctx, len(c.vocab)); err != nil {
		return fmt.Errorf("catalog.Index: %w", err)
	}
	for i := range c.listings {
		l := &c.listings[i]
		if err := database.InsertListingVector(ctx, rowids[l.ID], c.vector(l)); err != nil {
			return fmt.Errorf("catalog.Index: vector %s: %w", l.ID, err)
		}
	}
	return nil
}

// Similar returns up to k listings whose materials and category are closest
// to listing id, nearest first. The listing itself is excluded.
func (c *Catalog) Similar(ctx context.Context, database *db.DB, id string, k int) ([]models.Listing, error) {
	l, err := c.Get(id)
	if err != nil {
		return nil, err
	}
	if k <= 0 {
		return nil, nil
	}
	neighbors, err := database.NearestListings(ctx, c.vector(&l), k+1)
	if err != nil {
		return nil, fmt.Errorf("catalog.Similar: %w", err)
	}

	out := make([]models.Listing, 0, k)
	for _, n := range neighbors {
		i, ok := c.byID[n.ID]
		if !ok || n.ID == id {
			continue
		}
		out = append(out, c.listings[i])
		if len(out) == k {
			break
		}
	}
	return out, nil
}

// buildVocab assigns one dimension per category and per distinct
// lower-cased material.
func buildVocab(listings []models.Listing) map[string]int {
	terms := make([]string, 0, len(models.ValidCategories))
	for _, cat := range models.ValidCategories {
		terms = append(terms, "category:"+string(cat))
	}
	var materials []string
	for i := range listings {
		for _, m := range listings[i].AcceptedMaterials {
			materials = append(materials, "material:"+strings.ToLower(m))
		}
	}
	slices.Sort(materials)
	terms = append(terms, slices.Compact(materials)...)

	vocab := make(map[string]int, len(terms))
	for i, t := range terms {
		vocab[t] = i
	}
	return vocab
}

// vector is the unit-length multi-hot encoding of l over the vocabulary.
func (c *Catalog) vector(l *models.Listing) []float32 {
	v := make([]float32, len(c.vocab))
	if i, ok := c.vocab["category:"+string(l.Category)]; ok {
		v[i] = 1
	}
	for _, m := range l.AcceptedMaterials {
		if i, ok := c.vocab["material:"+strings.ToLower(m)]; ok {
			v[i] = 1
		}
	}
	var sum float64
	for _, x := range v {
		sum += float64(x * x)
	}
	if sum > 0 {
		norm := float32(math.Sqrt(sum))
		for i := range v {
			v[i] /= norm
		}
	}
	return v
}
