// Package badgescmd implements the `ecorewards badges` command.
package badgescmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/go-ports/ecorewards/cmd/ecorewards/shared"
	"github.com/go-ports/ecorewards/internal/badges"
	"github.com/go-ports/ecorewards/internal/models"
	"github.com/go-ports/ecorewards/internal/service"
)

// Command implements `ecorewards badges`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the badges command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "badges <principal>",
		Short: "Show the navigation badges a user sees",
		Args:  cobra.ExactArgs(1),
		RunE:  c.run,
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, args []string) error {
	svc, err := service.New(c.ctx.HomeDir())
	if err != nil {
		return err
	}
	defer svc.Close()

	st, err := svc.Entitlement(cmd.Context(), models.Principal(args[0]))
	if err != nil {
		return err
	}
	resolved := svc.Badges(st.Snapshot)

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	for _, item := range badges.DefaultNav {
		b := resolved[item.Path]
		badge := "-"
		if b.Visible {
			badge = fmt.Sprintf("%s (%s)", b.Label, b.Style)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", item.Name, item.Path, badge)
	}
	return tw.Flush()
}
