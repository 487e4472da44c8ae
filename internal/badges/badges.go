// Package badges resolves navigation badges from an entitlement snapshot.
package badges

import (
	"github.com/go-ports/ecorewards/internal/models"
)

const (
	LabelActive  = "Active"
	LabelUpgrade = "Upgrade"
)

// DefaultNav is the application's navigation set.
var DefaultNav = []models.NavItem{
	{Name: "Dashboard", Path: "/dashboard"},
	{Name: "Centers", Path: "/centers"},
	{Name: "Rewards", Path: "/rewards", Badge: &models.BadgeRule{Kind: models.BadgeStatic, Label: "New"}},
	{Name: "Subscription", Path: "/subscription", Badge: &models.BadgeRule{Kind: models.BadgeEntitlement}},
}

// Evaluate resolves the badge of every item in items, keyed by path. Items
// without a rule resolve to a hidden badge. Evaluate is pure.
func Evaluate(snap models.EntitlementSnapshot, items []models.NavItem) map[string]models.Badge {
	out := make(map[string]models.Badge, len(items))
	for _, item := range items {
		out[item.Path] = resolve(snap, item.Badge)
	}
	return out
}

func resolve(snap models.EntitlementSnapshot, rule *models.BadgeRule) models.Badge {
	if rule == nil {
		return models.Badge{}
	}
	switch rule.Kind {
	case models.BadgeStatic:
		return models.Badge{Visible: true, Label: rule.Label, Style: models.StyleNeutral}
	case models.BadgeEntitlement:
		sub := snap.Subscription
		pro := sub != nil && sub.Tier == models.TierPro
		active := sub != nil && sub.IsActive
		b := models.Badge{Visible: !active || !pro, Label: LabelUpgrade, Style: models.StyleNeedsUpgrade}
		if pro {
			b.Label = LabelActive
			b.Style = models.StyleProActive
		}
		return b
	default:
		return models.Badge{}
	}
}
