// Package directionscmd implements the `ecorewards directions` command.
package directionscmd

import (
	"github.com/spf13/cobra"

	"github.com/go-ports/ecorewards/cmd/ecorewards/shared"
	"github.com/go-ports/ecorewards/internal/service"
)

// Command implements `ecorewards directions`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	open bool
}

// New creates the directions command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "directions <id>",
		Short: "Open map directions to a center",
		Args:  cobra.ExactArgs(1),
		RunE:  c.run,
	}
	c.cmd.Flags().BoolVar(&c.open, "open", false, "Hand the URL to the system handler instead of printing it")
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

	l, err := svc.Listing(args[0])
	if err != nil {
		return err
	}
	shared.Launcher(cmd, c.open).OpenDirections(cmd.Context(), l.Address)
	return nil
}
