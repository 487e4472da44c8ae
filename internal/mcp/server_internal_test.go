package mcp

// White-box testing required: stateRow, categoryEnum and roundTwo shape the
// JSON returned by the tools. They are not reachable through the public
// NewServer API without a full client round trip, so direct access is used to
// pin down their edge cases.

import (
	"encoding/json"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/go-ports/ecorewards/internal/entitlement"
	"github.com/go-ports/ecorewards/internal/models"
)

func TestCategoryEnum_HappyPath(t *testing.T) {
	c := qt.New(t)
	c.Assert(categoryEnum(), qt.DeepEquals, []string{"all", "general", "electronics", "specialty", "hazardous"})
}

func TestStateRow_HappyPath(t *testing.T) {
	c := qt.New(t)

	c.Run("absent subscription encodes as null", func(c *qt.C) {
		b, err := json.Marshal(stateRow(entitlement.State{Principal: "a"}))
		c.Assert(err, qt.IsNil)
		c.Assert(string(b), qt.JSONEquals, map[string]any{
			"principal": "a", "points": 0, "subscription": nil, "loading": false,
		})
	})

	c.Run("subscription fields", func(c *qt.C) {
		st := entitlement.State{
			Principal: "b",
			Snapshot: models.EntitlementSnapshot{
				Points:       12,
				Subscription: &models.SubscriptionInfo{Tier: models.TierPro, IsActive: true},
			},
		}
		b, err := json.Marshal(stateRow(st))
		c.Assert(err, qt.IsNil)
		c.Assert(string(b), qt.JSONEquals, map[string]any{
			"principal":    "b",
			"points":       12,
			"subscription": map[string]any{"tier": "pro", "isActive": true},
			"loading":      false,
		})
	})
}

func TestRoundTwo_HappyPath(t *testing.T) {
	c := qt.New(t)

	cases := []struct {
		in, want float64
	}{
		{1.234, 1.23},
		{1.236, 1.24},
		{0, 0},
		{4.5, 4.5},
	}
	for _, tc := range cases {
		c.Assert(roundTwo(tc.in), qt.Equals, tc.want)
	}
}
