// Package initcmd implements the `ecorewards init` command.
package initcmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/go-ports/ecorewards/cmd/ecorewards/shared"
	"github.com/go-ports/ecorewards/internal/config"
	"github.com/go-ports/ecorewards/internal/service"
)

// Command implements `ecorewards init`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the init command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "init",
		Short: "Initialize the app home and index the listing catalog",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	home := c.ctx.HomeDir()
	if err := os.MkdirAll(home, 0o755); err != nil {
		return fmt.Errorf("init: %w", err)
	}
	cfgPath := service.ConfigPath(home)
	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		if err := config.Save(cfgPath, config.Default()); err != nil {
			return fmt.Errorf("init: %w", err)
		}
	}

	svc, err := service.New(home)
	if err != nil {
		return err
	}
	defer svc.Close()

	fmt.Fprintf(cmd.OutOrStdout(), "EcoRewards initialized at %s (%d listings indexed)\n", home, len(svc.Listings()))
	return nil
}
