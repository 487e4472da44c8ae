package models_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/go-ports/ecorewards/internal/models"
)

func TestPrincipal_HappyPath(t *testing.T) {
	c := qt.New(t)

	c.Run("zero value is signed out", func(c *qt.C) {
		c.Assert(models.NoPrincipal.SignedIn(), qt.IsFalse)
		c.Assert(models.Principal("alice").SignedIn(), qt.IsTrue)
	})

	tests := []struct {
		name       string
		principal  models.Principal
		collection string
		want       string
	}{
		{"default collection", "alice", "", "users/alice"},
		{"custom collection", "bob", "members", "members/bob"},
		{"slashes are trimmed", "bob", "/members/", "members/bob"},
	}
	for _, tc := range tests {
		c.Run(tc.name, func(c *qt.C) {
			c.Assert(tc.principal.RecordPath(tc.collection), qt.Equals, tc.want)
		})
	}
}

func TestParseTier_HappyPath(t *testing.T) {
	c := qt.New(t)

	tests := []struct {
		in   string
		want models.Tier
	}{
		{"pro", models.TierPro},
		{" PRO ", models.TierPro},
		{"free", models.TierFree},
		{"", models.TierFree},
		{"enterprise", models.TierFree},
	}
	for _, tc := range tests {
		c.Run(tc.in, func(c *qt.C) {
			c.Assert(models.ParseTier(tc.in), qt.Equals, tc.want)
		})
	}
}

func TestEntitlementSnapshot_HappyPath(t *testing.T) {
	c := qt.New(t)

	c.Run("default snapshot is empty", func(c *qt.C) {
		s := models.DefaultSnapshot()
		c.Assert(s.IsDefault(), qt.IsTrue)
		c.Assert(s.HasActivePro(), qt.IsFalse)
	})

	c.Run("active pro is detected", func(c *qt.C) {
		s := models.EntitlementSnapshot{
			Points:       10,
			Subscription: &models.SubscriptionInfo{Tier: models.TierPro, IsActive: true},
		}
		c.Assert(s.IsDefault(), qt.IsFalse)
		c.Assert(s.HasActivePro(), qt.IsTrue)
	})

	c.Run("inactive pro is not active pro", func(c *qt.C) {
		s := models.EntitlementSnapshot{
			Subscription: &models.SubscriptionInfo{Tier: models.TierPro},
		}
		c.Assert(s.HasActivePro(), qt.IsFalse)
	})
}

func TestCategory_IsValid(t *testing.T) {
	c := qt.New(t)

	for _, cat := range models.ValidCategories {
		c.Assert(cat.IsValid(), qt.IsTrue)
	}
	c.Assert(models.CategoryAll.IsValid(), qt.IsFalse)
	c.Assert(models.Category("compost").IsValid(), qt.IsFalse)
}
