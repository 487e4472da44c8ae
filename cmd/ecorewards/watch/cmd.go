// Package watchcmd implements the `ecorewards watch` command.
package watchcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/ecorewards/cmd/ecorewards/shared"
	"github.com/go-ports/ecorewards/internal/entitlement"
	"github.com/go-ports/ecorewards/internal/models"
	"github.com/go-ports/ecorewards/internal/service"
)

// Command implements `ecorewards watch`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the watch command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "watch <principal>",
		Short: "Follow a user's entitlement live until interrupted",
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

	out := cmd.OutOrStdout()
	return svc.Watch(cmd.Context(), models.Principal(args[0]), func(st entitlement.State) {
		if st.Loading {
			return
		}
		shared.PrintState(out, st)
		fmt.Fprintln(out)
	})
}
