// Package similarcmd implements the `ecorewards similar` command.
package similarcmd

import (
	"github.com/spf13/cobra"

	"github.com/go-ports/ecorewards/cmd/ecorewards/shared"
	"github.com/go-ports/ecorewards/internal/service"
)

// Command implements `ecorewards similar`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	limit int
}

// New creates the similar command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "similar <id>",
		Short: "List centers accepting similar materials",
		Args:  cobra.ExactArgs(1),
		RunE:  c.run,
	}
	c.cmd.Flags().IntVar(&c.limit, "limit", 3, "Maximum number of results")
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

	results, err := svc.Similar(cmd.Context(), args[0], c.limit)
	if err != nil {
		return err
	}
	shared.PrintListings(cmd.OutOrStdout(), "Similar to "+args[0], results)
	return nil
}
