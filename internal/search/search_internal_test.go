package search

// White-box testing required: matchesTerm and matchesCategory expect a
// pre-lowered term and treat the empty filter specially. Query only exposes
// their combined effect, so each match path is pinned down here.

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/go-ports/ecorewards/internal/models"
)

// ---------------------------------------------------------------------------
// matchesTerm
// ---------------------------------------------------------------------------

func TestMatchesTerm_HappyPath(t *testing.T) {
	c := qt.New(t)

	l := &models.Listing{
		Name:              "Harbor Depot",
		Address:           "9 Quay Street",
		AcceptedMaterials: []string{"Scrap Metal", "Tyres"},
	}

	tests := []struct {
		term string
		want bool
	}{
		{term: "", want: true},
		{term: "harbor", want: true},
		{term: "quay", want: true},
		{term: "tyres", want: true},
		{term: "scrap metal", want: true},
		{term: "metal tyres", want: false},
		{term: "glass", want: false},
	}
	for _, tc := range tests {
		c.Run(tc.term, func(c *qt.C) {
			c.Assert(matchesTerm(l, tc.term), qt.Equals, tc.want)
		})
	}
}

func TestMatchesTerm_NoMaterials(t *testing.T) {
	c := qt.New(t)
	c.Assert(matchesTerm(&models.Listing{Name: "x"}, "y"), qt.IsFalse)
}

// ---------------------------------------------------------------------------
// matchesCategory
// ---------------------------------------------------------------------------

func TestMatchesCategory_HappyPath(t *testing.T) {
	c := qt.New(t)

	l := &models.Listing{Category: models.CategorySpecialty}
	c.Assert(matchesCategory(l, ""), qt.IsTrue)
	c.Assert(matchesCategory(l, models.CategoryAll), qt.IsTrue)
	c.Assert(matchesCategory(l, models.CategorySpecialty), qt.IsTrue)
	c.Assert(matchesCategory(l, models.CategoryGeneral), qt.IsFalse)
}
