// Package mcp provides the stdio MCP server exposing listing and entitlement
// tools to agents.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/go-ports/ecorewards/internal/buildinfo"
	"github.com/go-ports/ecorewards/internal/entitlement"
	"github.com/go-ports/ecorewards/internal/marks"
	"github.com/go-ports/ecorewards/internal/models"
	"github.com/go-ports/ecorewards/internal/search"
	"github.com/go-ports/ecorewards/internal/service"
)

const queryDescription = `Search recycling centers. Filters by free text (name, address or any accepted material) and category, then sorts by distance, rating, name or reward points. Results that compare equal keep dataset order.` //nolint:lll

const entitlementDescription = `Get a user's live entitlement: reward points and subscription tier/activation. Missing or unreadable records report zero points and no subscription.` //nolint:lll

// NewServer creates and registers all tools on a new MCP server.
// It is separate from Serve so that tests and other callers can obtain a fully
// configured server without committing to the stdio transport.
func NewServer(svc *service.Service) *mcpserver.MCPServer {
	s := mcpserver.NewMCPServer("ecorewards", buildinfo.Version)
	registerTools(s, svc)
	return s
}

// Serve starts the stdio MCP server for home, blocking until stdin closes.
func Serve(_ context.Context, home string) error {
	svc, err := service.New(home)
	if err != nil {
		return fmt.Errorf("mcp: init service: %w", err)
	}
	defer svc.Close()

	return mcpserver.ServeStdio(NewServer(svc))
}

func categoryEnum() []string {
	out := []string{string(models.CategoryAll)}
	for _, c := range models.ValidCategories {
		out = append(out, string(c))
	}
	return out
}

func registerTools(s *mcpserver.MCPServer, svc *service.Service) {
	s.AddTool(mcp.NewTool("listings_query",
		mcp.WithDescription(queryDescription),
		mcp.WithString("search",
			mcp.Description("Case-insensitive text matched against name, address and accepted materials."),
		),
		mcp.WithString("category",
			mcp.Description("Category filter (default all)."),
			mcp.Enum(categoryEnum()...),
		),
		mcp.WithString("sort",
			mcp.Description("Sort key (default distance)."),
			mcp.Enum(string(models.SortDistance), string(models.SortRating), string(models.SortName), string(models.SortPoints)),
		),
	), func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleQuery(svc, req)
	})

	s.AddTool(mcp.NewTool("listings_similar",
		mcp.WithDescription("Find centers accepting similar materials to a given center."),
		mcp.WithString("id",
			mcp.Description("Listing ID."),
			mcp.Required(),
		),
		mcp.WithNumber("limit",
			mcp.Description("Max results (default 3)"),
		),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleSimilar(ctx, svc, req)
	})

	s.AddTool(mcp.NewTool("entitlement_get",
		mcp.WithDescription(entitlementDescription),
		mcp.WithString("principal",
			mcp.Description("User ID."),
			mcp.Required(),
		),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleEntitlement(ctx, svc, req)
	})

	s.AddTool(mcp.NewTool("badges_evaluate",
		mcp.WithDescription("Resolve the navigation badges shown to a user."),
		mcp.WithString("principal",
			mcp.Description("User ID."),
			mcp.Required(),
		),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleBadges(ctx, svc, req)
	})

	s.AddTool(mcp.NewTool("marks_toggle",
		mcp.WithDescription("Toggle a center in the favorite or saved set. Toggling twice restores the original state."),
		mcp.WithString("id",
			mcp.Description("Listing ID."),
			mcp.Required(),
		),
		mcp.WithString("kind",
			mcp.Description("Which set to toggle."),
			mcp.Enum(string(marks.Favorite), string(marks.Saved)),
			mcp.Required(),
		),
	), func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleToggle(svc, req)
	})
}

// ---------------------------------------------------------------------------
// Tool handlers
// ---------------------------------------------------------------------------

func handleQuery(svc *service.Service, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category, err := search.ParseCategoryFilter(req.GetString("category", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	state := models.QueryState{
		SearchTerm:     req.GetString("search", ""),
		CategoryFilter: category,
		SortKey:        search.ParseSortKey(req.GetString("sort", "")),
	}
	return jsonResult(listingRows(svc, svc.Query(state)))
}

func handleSimilar(ctx context.Context, svc *service.Service, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", 3)
	if limit <= 0 {
		limit = 3
	}
	listings, err := svc.Similar(ctx, req.GetString("id", ""), limit)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(listingRows(svc, listings))
}

func handleEntitlement(ctx context.Context, svc *service.Service, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	st, err := svc.Entitlement(ctx, models.Principal(req.GetString("principal", "")))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(stateRow(st))
}

func handleBadges(ctx context.Context, svc *service.Service, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	st, err := svc.Entitlement(ctx, models.Principal(req.GetString("principal", "")))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(svc.Badges(st.Snapshot))
}

func handleToggle(svc *service.Service, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if _, err := svc.Listing(id); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	kind, ok := marks.ParseKind(req.GetString("kind", ""))
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown mark kind %q", req.GetString("kind", ""))), nil
	}
	marked := svc.Marks().Toggle(kind, id)
	return jsonResult(map[string]any{
		"id":     id,
		"kind":   kind,
		"marked": marked,
		"all":    svc.Marks().List(kind),
	})
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func listingRows(svc *service.Service, listings []models.Listing) []map[string]any {
	rows := make([]map[string]any, 0, len(listings))
	for i := range listings {
		l := &listings[i]
		rows = append(rows, map[string]any{
			"id":                l.ID,
			"name":              l.Name,
			"address":           l.Address,
			"category":          l.Category,
			"distanceKm":        roundTwo(l.DistanceKm),
			"rating":            roundTwo(l.Rating),
			"rewardPoints":      l.RewardPoints,
			"acceptedMaterials": l.AcceptedMaterials,
			"isOpenNow":         l.IsOpenNow,
			"favorite":          svc.Marks().IsFavorite(l.ID),
			"saved":             svc.Marks().IsSaved(l.ID),
		})
	}
	return rows
}

func stateRow(st entitlement.State) map[string]any {
	return map[string]any{
		"principal":    st.Principal,
		"points":       st.Snapshot.Points,
		"subscription": st.Snapshot.Subscription,
		"loading":      st.Loading,
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}

// roundTwo rounds f to 2 decimal places.
func roundTwo(f float64) float64 {
	return math.Round(f*100) / 100
}
