// Package rootcmd wires the root cobra.Command for the ecorewards CLI binary.
package rootcmd

import (
	"github.com/spf13/cobra"

	badgescmd "github.com/go-ports/ecorewards/cmd/ecorewards/badges"
	callcmd "github.com/go-ports/ecorewards/cmd/ecorewards/call"
	configcmd "github.com/go-ports/ecorewards/cmd/ecorewards/config"
	directionscmd "github.com/go-ports/ecorewards/cmd/ecorewards/directions"
	entitlementcmd "github.com/go-ports/ecorewards/cmd/ecorewards/entitlement"
	initcmd "github.com/go-ports/ecorewards/cmd/ecorewards/init"
	listingscmd "github.com/go-ports/ecorewards/cmd/ecorewards/listings"
	mcpcmd "github.com/go-ports/ecorewards/cmd/ecorewards/mcp"
	reindexcmd "github.com/go-ports/ecorewards/cmd/ecorewards/reindex"
	"github.com/go-ports/ecorewards/cmd/ecorewards/shared"
	similarcmd "github.com/go-ports/ecorewards/cmd/ecorewards/similar"
	versioncmd "github.com/go-ports/ecorewards/cmd/ecorewards/version"
	watchcmd "github.com/go-ports/ecorewards/cmd/ecorewards/watch"
	"github.com/go-ports/ecorewards/internal/config"
	"github.com/go-ports/ecorewards/internal/logging"
	"github.com/go-ports/ecorewards/internal/service"
)

// New creates and returns the root cobra.Command for the ecorewards CLI.
func New() *cobra.Command {
	ctx := &shared.Context{}

	root := &cobra.Command{
		Use:           "ecorewards",
		Short:         "EcoRewards — recycling centers, points and subscription badges",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          func(cmd *cobra.Command, _ []string) error { return cmd.Help() },
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initLogging(cmd, ctx)
		},
	}

	f := root.PersistentFlags()
	f.StringVar(
		&ctx.Home, "home", "",
		"Override app home directory (default: $ECOREWARDS_HOME env → persisted config → ~/.ecorewards)",
	)
	f.StringVar(&ctx.LogLevel, "log-level", "", "Log level: debug | info | warn | error | disabled (default from config)")
	f.StringVar(&ctx.LogFormat, "log-format", "", "Log format: auto | json | console (default from config)")

	root.AddCommand(
		initcmd.New(ctx).Cmd(),
		configcmd.New(ctx).Cmd(),
		listingscmd.New(ctx).Cmd(),
		similarcmd.New(ctx).Cmd(),
		reindexcmd.New(ctx).Cmd(),
		callcmd.New(ctx).Cmd(),
		directionscmd.New(ctx).Cmd(),
		entitlementcmd.New(ctx).Cmd(),
		badgescmd.New(ctx).Cmd(),
		watchcmd.New(ctx).Cmd(),
		mcpcmd.New(ctx).Cmd(),
		versioncmd.New(ctx).Cmd(),
	)

	return root
}

// initLogging configures zerolog from the home's config, with flag overrides.
// An unreadable config is left for the command itself to report.
func initLogging(cmd *cobra.Command, ctx *shared.Context) error {
	cfg, err := config.Load(service.ConfigPath(ctx.HomeDir()))
	if err != nil {
		cfg = config.Default()
	}
	lc := logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Component: "ecorewards"}
	if ctx.LogLevel != "" {
		lc.Level = ctx.LogLevel
	}
	if ctx.LogFormat != "" {
		lc.Format = ctx.LogFormat
	}
	logging.Init(lc, cmd.ErrOrStderr())
	return nil
}
