// Package entitlementcmd implements the `ecorewards entitlement` command group.
package entitlementcmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/ecorewards/cmd/ecorewards/shared"
	"github.com/go-ports/ecorewards/internal/models"
	"github.com/go-ports/ecorewards/internal/service"
)

// Command implements `ecorewards entitlement`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the entitlement command group.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "entitlement",
		Short: "Show or write a user's points and subscription",
	}
	c.cmd.AddCommand(
		newSet(ctx),
		newShow(ctx),
		newClear(ctx),
	)
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

// ---------------------------------------------------------------------------
// entitlement set
// ---------------------------------------------------------------------------

func newSet(ctx *shared.Context) *cobra.Command {
	var (
		points int
		tier   string
		active bool
	)
	cmd := &cobra.Command{
		Use:   "set <principal>",
		Short: "Replace a user's entitlement record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if points < 0 {
				return errors.New("entitlement set: --points must not be negative")
			}
			snap := models.EntitlementSnapshot{Points: points}
			if tier != "" {
				snap.Subscription = &models.SubscriptionInfo{Tier: models.ParseTier(tier), IsActive: active}
			}

			svc, err := service.New(ctx.HomeDir())
			if err != nil {
				return err
			}
			defer svc.Close()

			if err := svc.SetEntitlement(cmd.Context(), models.Principal(args[0]), snap); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated entitlement for %s\n", args[0])
			return nil
		},
	}
	f := cmd.Flags()
	f.IntVar(&points, "points", 0, "Reward points")
	f.StringVar(&tier, "tier", "", "Subscription tier: free | pro (omit for no subscription)")
	f.BoolVar(&active, "active", false, "Whether the subscription is active")
	return cmd
}

// ---------------------------------------------------------------------------
// entitlement show
// ---------------------------------------------------------------------------

func newShow(ctx *shared.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "show <principal>",
		Short: "Show a user's current entitlement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := service.New(ctx.HomeDir())
			if err != nil {
				return err
			}
			defer svc.Close()

			st, err := svc.Entitlement(cmd.Context(), models.Principal(args[0]))
			if err != nil {
				return err
			}
			shared.PrintState(cmd.OutOrStdout(), st)
			return nil
		},
	}
}

// ---------------------------------------------------------------------------
// entitlement clear
// ---------------------------------------------------------------------------

func newClear(ctx *shared.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "clear <principal>",
		Short: "Delete a user's entitlement record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := service.New(ctx.HomeDir())
			if err != nil {
				return err
			}
			defer svc.Close()

			if err := svc.ClearEntitlement(cmd.Context(), models.Principal(args[0])); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared entitlement for %s\n", args[0])
			return nil
		},
	}
}
