package badges_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/go-ports/ecorewards/internal/badges"
	"github.com/go-ports/ecorewards/internal/models"
)

func sub(tier models.Tier, active bool) *models.SubscriptionInfo {
	return &models.SubscriptionInfo{Tier: tier, IsActive: active}
}

func TestEvaluate_SubscriptionBadge(t *testing.T) {
	c := qt.New(t)

	tests := []struct {
		name string
		snap models.EntitlementSnapshot
		want models.Badge
	}{
		{
			name: "active pro hides the badge",
			snap: models.EntitlementSnapshot{Subscription: sub(models.TierPro, true)},
			want: models.Badge{Visible: false, Label: badges.LabelActive, Style: models.StyleProActive},
		},
		{
			name: "inactive pro shows Active",
			snap: models.EntitlementSnapshot{Subscription: sub(models.TierPro, false)},
			want: models.Badge{Visible: true, Label: badges.LabelActive, Style: models.StyleProActive},
		},
		{
			name: "active free shows Upgrade",
			snap: models.EntitlementSnapshot{Subscription: sub(models.TierFree, true)},
			want: models.Badge{Visible: true, Label: badges.LabelUpgrade, Style: models.StyleNeedsUpgrade},
		},
		{
			name: "no subscription shows Upgrade",
			snap: models.DefaultSnapshot(),
			want: models.Badge{Visible: true, Label: badges.LabelUpgrade, Style: models.StyleNeedsUpgrade},
		},
	}

	for _, tc := range tests {
		c.Run(tc.name, func(c *qt.C) {
			got := badges.Evaluate(tc.snap, badges.DefaultNav)
			c.Assert(got["/subscription"], qt.Equals, tc.want)
		})
	}
}

func TestEvaluate_OtherItems(t *testing.T) {
	c := qt.New(t)

	got := badges.Evaluate(models.EntitlementSnapshot{Subscription: sub(models.TierPro, true)}, badges.DefaultNav)
	c.Assert(got, qt.HasLen, len(badges.DefaultNav))
	c.Assert(got["/rewards"], qt.Equals, models.Badge{Visible: true, Label: "New", Style: models.StyleNeutral})
	c.Assert(got["/dashboard"].Visible, qt.IsFalse)
	c.Assert(got["/centers"].Visible, qt.IsFalse)
}

func TestEvaluate_Pure(t *testing.T) {
	c := qt.New(t)

	snap := models.EntitlementSnapshot{Points: 5, Subscription: sub(models.TierFree, false)}
	first := badges.Evaluate(snap, badges.DefaultNav)
	second := badges.Evaluate(snap, badges.DefaultNav)
	c.Assert(first, qt.DeepEquals, second)
	c.Assert(snap.Subscription, qt.DeepEquals, sub(models.TierFree, false))
}

func TestEvaluate_UnknownKindIsHidden(t *testing.T) {
	c := qt.New(t)

	items := []models.NavItem{{Path: "/x", Badge: &models.BadgeRule{Kind: "mystery", Label: "?"}}}
	c.Assert(badges.Evaluate(models.DefaultSnapshot(), items)["/x"], qt.Equals, models.Badge{})
}
