// Package reindexcmd implements the `ecorewards reindex` command.
package reindexcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/ecorewards/cmd/ecorewards/shared"
	"github.com/go-ports/ecorewards/internal/service"
)

// Command implements `ecorewards reindex`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the reindex command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the listing table and similarity vectors",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	svc, err := service.New(c.ctx.HomeDir())
	if err != nil {
		return err
	}
	defer svc.Close()

	out := cmd.OutOrStdout()
	if len(svc.Listings()) == 0 {
		fmt.Fprintln(out, "No listings to reindex.")
		return nil
	}

	result, err := svc.Reindex(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Re-indexed %d listings (%d dims)\n", result.Count, result.Dim)
	return nil
}
