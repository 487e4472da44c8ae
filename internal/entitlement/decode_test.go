package entitlement_test

import (
	"math"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/go-ports/ecorewards/internal/entitlement"
	"github.com/go-ports/ecorewards/internal/models"
)

func TestDecode_HappyPath(t *testing.T) {
	c := qt.New(t)

	tests := []struct {
		name string
		data map[string]any
		want models.EntitlementSnapshot
	}{
		{
			name: "nil record is the default",
			data: nil,
			want: models.DefaultSnapshot(),
		},
		{
			name: "full record",
			data: map[string]any{
				"points":       float64(150),
				"subscription": map[string]any{"tier": "pro", "isActive": true},
			},
			want: models.EntitlementSnapshot{
				Points:       150,
				Subscription: &models.SubscriptionInfo{Tier: models.TierPro, IsActive: true},
			},
		},
		{
			name: "points only",
			data: map[string]any{"points": 42},
			want: models.EntitlementSnapshot{Points: 42},
		},
		{
			name: "subscription without fields defaults to inactive free",
			data: map[string]any{"subscription": map[string]any{}},
			want: models.EntitlementSnapshot{
				Subscription: &models.SubscriptionInfo{Tier: models.TierFree},
			},
		},
		{
			name: "null subscription is absent",
			data: map[string]any{"points": 1, "subscription": nil},
			want: models.EntitlementSnapshot{Points: 1},
		},
		{
			name: "mistyped fields take defaults",
			data: map[string]any{
				"points":       "lots",
				"subscription": map[string]any{"tier": 3, "isActive": "maybe"},
			},
			want: models.EntitlementSnapshot{
				Subscription: &models.SubscriptionInfo{Tier: models.TierFree},
			},
		},
		{
			name: "numeric strings are accepted",
			data: map[string]any{
				"points":       "75",
				"subscription": map[string]any{"tier": "PRO", "isActive": "true"},
			},
			want: models.EntitlementSnapshot{
				Points:       75,
				Subscription: &models.SubscriptionInfo{Tier: models.TierPro, IsActive: true},
			},
		},
		{
			name: "negative points clamp to zero",
			data: map[string]any{"points": float64(-5)},
			want: models.EntitlementSnapshot{},
		},
		{
			name: "fractional points truncate",
			data: map[string]any{"points": 12.9},
			want: models.EntitlementSnapshot{Points: 12},
		},
		{
			name: "balances above 32 bits are kept",
			data: map[string]any{"points": float64(1 << 40)},
			want: models.EntitlementSnapshot{Points: 1 << 40},
		},
		{
			name: "int64 balances are exact",
			data: map[string]any{"points": int64(1<<53 + 1)},
			want: models.EntitlementSnapshot{Points: 1<<53 + 1},
		},
		{
			name: "integer strings are exact",
			data: map[string]any{"points": "9007199254740993"},
			want: models.EntitlementSnapshot{Points: 9007199254740993},
		},
		{
			name: "out of range floats clamp to the largest int",
			data: map[string]any{"points": 1e300},
			want: models.EntitlementSnapshot{Points: math.MaxInt},
		},
		{
			name: "NaN is zero",
			data: map[string]any{"points": math.NaN()},
			want: models.EntitlementSnapshot{},
		},
		{
			name: "subscription as a string is absent",
			data: map[string]any{"subscription": "pro"},
			want: models.EntitlementSnapshot{},
		},
	}

	for _, tc := range tests {
		c.Run(tc.name, func(c *qt.C) {
			c.Assert(entitlement.Decode(tc.data), qt.DeepEquals, tc.want)
		})
	}
}

func TestEncode_DecodesBack(t *testing.T) {
	c := qt.New(t)

	snaps := []models.EntitlementSnapshot{
		{},
		{Points: 10},
		{Points: 3, Subscription: &models.SubscriptionInfo{Tier: models.TierPro, IsActive: true}},
	}
	for _, s := range snaps {
		c.Assert(entitlement.Decode(entitlement.Encode(s)), qt.DeepEquals, s)
	}
}
