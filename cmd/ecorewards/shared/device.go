package shared

import (
	"github.com/spf13/cobra"

	"github.com/go-ports/ecorewards/internal/device"
)

// Launcher returns a device launcher that hands URLs to the system handler
// when open is set and prints them to the command output otherwise.
func Launcher(cmd *cobra.Command, open bool) *device.Launcher {
	if open {
		return device.NewLauncher(device.SystemOpener())
	}
	return device.NewLauncher(device.PrintOpener(cmd.OutOrStdout()))
}
