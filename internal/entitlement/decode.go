package entitlement

import (
	"math"
	"strconv"
	"strings"

	"github.com/yalp/jsonpath"

	"github.com/go-ports/ecorewards/internal/models"
)

// Record paths inside an entitlement document.
var (
	pointsPath       = mustPrepare("$.points")
	subscriptionPath = mustPrepare("$.subscription")
	tierPath         = mustPrepare("$.subscription.tier")
	activePath       = mustPrepare("$.subscription.isActive")
)

func mustPrepare(path string) jsonpath.FilterFunc {
	f, err := jsonpath.Prepare(path)
	if err != nil {
		panic("entitlement: bad record path " + path + ": " + err.Error())
	}
	return f
}

// Decode converts a raw entitlement record into a snapshot. Missing or
// mistyped fields take their default: zero points, no subscription, free
// tier, inactive. A nil record decodes to the default snapshot.
func Decode(data map[string]any) models.EntitlementSnapshot {
	if data == nil {
		return models.DefaultSnapshot()
	}
	snap := models.EntitlementSnapshot{Points: readPoints(data)}

	if sub, err := subscriptionPath(data); err == nil {
		if _, ok := sub.(map[string]any); ok {
			info := &models.SubscriptionInfo{Tier: models.TierFree}
			if v, err := tierPath(data); err == nil {
				if s, ok := v.(string); ok {
					info.Tier = models.ParseTier(s)
				}
			}
			if v, err := activePath(data); err == nil {
				info.IsActive = asBool(v)
			}
			snap.Subscription = info
		}
	}
	return snap
}

// Encode is the inverse of Decode for well-formed snapshots.
func Encode(s models.EntitlementSnapshot) map[string]any {
	out := map[string]any{"points": s.Points}
	if s.Subscription != nil {
		out["subscription"] = map[string]any{
			"tier":     string(s.Subscription.Tier),
			"isActive": s.Subscription.IsActive,
		}
	}
	return out
}

func readPoints(data map[string]any) int {
	v, err := pointsPath(data)
	if err != nil {
		return 0
	}
	switch t := v.(type) {
	case int:
		return max(t, 0)
	case int64:
		return intPoints(t)
	case float64:
		return floatPoints(t)
	case float32:
		return floatPoints(float64(t))
	case string:
		t = strings.TrimSpace(t)
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return intPoints(n)
		}
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0
		}
		return floatPoints(f)
	}
	return 0
}

// intPoints clamps n to [0, math.MaxInt].
func intPoints(n int64) int {
	switch {
	case n <= 0:
		return 0
	case n > int64(math.MaxInt):
		return math.MaxInt
	}
	return int(n)
}

// floatPoints truncates f toward zero, clamped to [0, math.MaxInt].
func floatPoints(f float64) int {
	switch {
	case math.IsNaN(f) || f <= 0:
		return 0
	case f >= float64(math.MaxInt):
		return math.MaxInt
	}
	return int(f)
}

func asBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		return err == nil && parsed
	}
	return false
}
