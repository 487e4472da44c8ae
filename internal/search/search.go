// Package search implements the faceted listing query: a free-text filter and
// a category filter composed with one stable sort.
package search

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/go-ports/ecorewards/internal/models"
)

// ErrUnknownCategory is returned by ParseCategoryFilter for a value that is
// neither "all" nor a known category.
var ErrUnknownCategory = errors.New("unknown category")

// Query returns the listings matching state in the order selected by
// state.SortKey. Listings comparing equal keep their input order. Query never
// modifies listings and holds no state between calls.
func Query(listings []models.Listing, state models.QueryState) []models.Listing {
	term := strings.ToLower(state.SearchTerm)

	out := make([]models.Listing, 0, len(listings))
	for i := range listings {
		l := listings[i]
		if !matchesTerm(&l, term) || !matchesCategory(&l, state.CategoryFilter) {
			continue
		}
		l.AcceptedMaterials = cloneStrings(l.AcceptedMaterials)
		l.Features = cloneStrings(l.Features)
		out = append(out, l)
	}

	sort.SliceStable(out, less(out, state.SortKey))
	return out
}

// matchesTerm reports whether the lowered term occurs in the name, the
// address or any single accepted material.
func matchesTerm(l *models.Listing, term string) bool {
	if term == "" {
		return true
	}
	if strings.Contains(strings.ToLower(l.Name), term) ||
		strings.Contains(strings.ToLower(l.Address), term) {
		return true
	}
	for _, m := range l.AcceptedMaterials {
		if strings.Contains(strings.ToLower(m), term) {
			return true
		}
	}
	return false
}

// matchesCategory treats an empty filter like CategoryAll.
func matchesCategory(l *models.Listing, filter models.Category) bool {
	return filter == "" || filter == models.CategoryAll || filter == l.Category
}

func less(out []models.Listing, key models.SortKey) func(i, j int) bool {
	switch key {
	case models.SortRating:
		return func(i, j int) bool { return out[i].Rating > out[j].Rating }
	case models.SortPoints:
		return func(i, j int) bool { return out[i].RewardPoints > out[j].RewardPoints }
	case models.SortName:
		// Collators keep internal buffers; one per call.
		col := collate.New(language.English)
		return func(i, j int) bool { return col.CompareString(out[i].Name, out[j].Name) < 0 }
	default:
		return func(i, j int) bool { return out[i].DistanceKm < out[j].DistanceKm }
	}
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}

// ---------------------------------------------------------------------------
// Input parsing
// ---------------------------------------------------------------------------

// ParseSortKey maps s onto a sort key. Unknown values select SortDistance.
func ParseSortKey(s string) models.SortKey {
	switch k := models.SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case models.SortRating, models.SortName, models.SortPoints:
		return k
	default:
		return models.SortDistance
	}
}

// ParseCategoryFilter maps s onto a category filter. An empty value means
// CategoryAll.
func ParseCategoryFilter(s string) (models.Category, error) {
	c := models.Category(strings.ToLower(strings.TrimSpace(s)))
	if c == "" || c == models.CategoryAll {
		return models.CategoryAll, nil
	}
	if !c.IsValid() {
		return "", fmt.Errorf("search.ParseCategoryFilter: %w: %q", ErrUnknownCategory, s)
	}
	return c, nil
}
