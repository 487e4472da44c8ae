// Package models defines the core data types for the rewards platform.
package models

import (
	"strings"
)

// ---------------------------------------------------------------------------
// Principal
// ---------------------------------------------------------------------------

// Principal identifies a signed-in user. The zero value means signed out.
type Principal string

// NoPrincipal is the signed-out principal.
const NoPrincipal Principal = ""

// SignedIn reports whether p names a user.
func (p Principal) SignedIn() bool { return p != NoPrincipal }

// RecordPath returns the remote record path holding p's entitlement, rooted
// at collection (e.g. "users/alice").
func (p Principal) RecordPath(collection string) string {
	collection = strings.Trim(collection, "/")
	if collection == "" {
		collection = DefaultCollection
	}
	return collection + "/" + string(p)
}

// DefaultCollection is the record collection used when none is configured.
const DefaultCollection = "users"

// ---------------------------------------------------------------------------
// Entitlement
// ---------------------------------------------------------------------------

// Tier is a subscription tier.
type Tier string

const (
	TierFree Tier = "free"
	TierPro  Tier = "pro"
)

// ParseTier maps s onto a known tier. Unknown values fall back to TierFree.
func ParseTier(s string) Tier {
	if Tier(strings.ToLower(strings.TrimSpace(s))) == TierPro {
		return TierPro
	}
	return TierFree
}

// SubscriptionInfo is the subscription part of an entitlement.
type SubscriptionInfo struct {
	Tier     Tier `json:"tier"`
	IsActive bool `json:"isActive"`
}

// EntitlementSnapshot is the entitlement state delivered by one push.
// A nil Subscription means the principal holds no subscription.
type EntitlementSnapshot struct {
	Points       int               `json:"points"`
	Subscription *SubscriptionInfo `json:"subscription,omitempty"`
}

// DefaultSnapshot returns the snapshot used when no record is available:
// zero points and no subscription.
func DefaultSnapshot() EntitlementSnapshot {
	return EntitlementSnapshot{}
}

// IsDefault reports whether s carries no points and no subscription.
func (s EntitlementSnapshot) IsDefault() bool {
	return s.Points == 0 && s.Subscription == nil
}

// HasActivePro reports whether s holds an active pro subscription.
func (s EntitlementSnapshot) HasActivePro() bool {
	return s.Subscription != nil && s.Subscription.IsActive && s.Subscription.Tier == TierPro
}

// ---------------------------------------------------------------------------
// Navigation
// ---------------------------------------------------------------------------

// BadgeKind selects how a badge rule is interpreted.
type BadgeKind string

const (
	// BadgeStatic is always shown with its own label.
	BadgeStatic BadgeKind = "static"
	// BadgeEntitlement depends on the current subscription.
	BadgeEntitlement BadgeKind = "entitlementConditional"
)

// BadgeStyle is the presentation tag attached to a resolved badge.
type BadgeStyle string

const (
	StyleNeutral      BadgeStyle = "neutral"
	StyleProActive    BadgeStyle = "proActive"
	StyleNeedsUpgrade BadgeStyle = "needsUpgrade"
)

// BadgeRule describes the badge attached to a navigation item.
// Label is only used by static rules.
type BadgeRule struct {
	Kind  BadgeKind
	Label string
}

// NavItem is one entry of a navigation set.
type NavItem struct {
	Name  string
	Path  string
	Badge *BadgeRule // nil when the item has no badge
}

// Badge is the resolved badge for a navigation item.
type Badge struct {
	Visible bool       `json:"visible"`
	Label   string     `json:"label"`
	Style   BadgeStyle `json:"style"`
}

// ---------------------------------------------------------------------------
// Listings
// ---------------------------------------------------------------------------

// Category groups recycling centers by what they handle.
type Category string

const (
	CategoryGeneral     Category = "general"
	CategoryElectronics Category = "electronics"
	CategorySpecialty   Category = "specialty"
	CategoryHazardous   Category = "hazardous"
)

// ValidCategories lists the accepted listing categories.
var ValidCategories = []Category{CategoryGeneral, CategoryElectronics, CategorySpecialty, CategoryHazardous}

// IsValid reports whether c is one of ValidCategories.
func (c Category) IsValid() bool {
	for _, v := range ValidCategories {
		if v == c {
			return true
		}
	}
	return false
}

// Listing is a recycling-center listing.
type Listing struct {
	ID                string   `json:"id" yaml:"id"`
	Name              string   `json:"name" yaml:"name"`
	Address           string   `json:"address" yaml:"address"`
	DistanceKm        float64  `json:"distanceKm" yaml:"distanceKm"`
	AcceptedMaterials []string `json:"acceptedMaterials" yaml:"acceptedMaterials"`
	Category          Category `json:"category" yaml:"category"`
	HoursText         string   `json:"hoursText" yaml:"hoursText"`
	Rating            float64  `json:"rating" yaml:"rating"`
	Phone             string   `json:"phone" yaml:"phone"`
	IsOpenNow         bool     `json:"isOpenNow" yaml:"isOpenNow"`
	RewardPoints      int      `json:"rewardPoints" yaml:"rewardPoints"`
	RewardsEligible   bool     `json:"rewardsEligible" yaml:"rewardsEligible"`
	Features          []string `json:"features" yaml:"features"`
}

// ListingFields names every field a dataset record must carry.
var ListingFields = []string{
	"id", "name", "address", "distanceKm", "acceptedMaterials", "category",
	"hoursText", "rating", "phone", "isOpenNow", "rewardPoints",
	"rewardsEligible", "features",
}

// ---------------------------------------------------------------------------
// Query
// ---------------------------------------------------------------------------

// SortKey selects the single comparator applied by a query.
type SortKey string

const (
	SortDistance SortKey = "distance"
	SortRating   SortKey = "rating"
	SortName     SortKey = "name"
	SortPoints   SortKey = "points"
)

// CategoryAll is the category filter matching every listing.
const CategoryAll Category = "all"

// QueryState is the user's current search/filter/sort selection.
type QueryState struct {
	SearchTerm     string
	CategoryFilter Category
	SortKey        SortKey
}

// DefaultQuery returns the unfiltered query sorted by distance.
func DefaultQuery() QueryState {
	return QueryState{CategoryFilter: CategoryAll, SortKey: SortDistance}
}
