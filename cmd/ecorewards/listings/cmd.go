// Package listingscmd implements the `ecorewards listings` command.
package listingscmd

import (
	"github.com/spf13/cobra"

	"github.com/go-ports/ecorewards/cmd/ecorewards/shared"
	"github.com/go-ports/ecorewards/internal/models"
	"github.com/go-ports/ecorewards/internal/search"
	"github.com/go-ports/ecorewards/internal/service"
)

// Command implements `ecorewards listings`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	term     string
	category string
	sort     string
}

// New creates the listings command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "listings",
		Short: "Search, filter and sort recycling centers",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}

	f := c.cmd.Flags()
	f.StringVar(&c.term, "search", "", "Text matched against name, address and accepted materials")
	f.StringVar(&c.category, "category", "all", "Category: all | general | electronics | specialty | hazardous")
	f.StringVar(&c.sort, "sort", "distance", "Sort key: distance | rating | name | points")

	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	category, err := search.ParseCategoryFilter(c.category)
	if err != nil {
		return err
	}

	svc, err := service.New(c.ctx.HomeDir())
	if err != nil {
		return err
	}
	defer svc.Close()

	results := svc.Query(models.QueryState{
		SearchTerm:     c.term,
		CategoryFilter: category,
		SortKey:        search.ParseSortKey(c.sort),
	})
	shared.PrintListings(cmd.OutOrStdout(), "Listings", results)
	return nil
}
