// Package device implements the outbound dial and directions actions.
package device

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os/exec"
	"runtime"
	"strings"

	"github.com/rs/zerolog/log"
)

// MapsBaseURL is the directions endpoint addresses are appended to.
const MapsBaseURL = "https://www.google.com/maps/search/?api=1&query="

// Actions is the fire-and-forget device capability.
type Actions interface {
	Dial(ctx context.Context, phone string)
	OpenDirections(ctx context.Context, address string)
}

// Opener hands a URL to whatever handles it on the device.
type Opener func(ctx context.Context, rawURL string) error

// Launcher implements Actions by building tel: and maps URLs.
type Launcher struct {
	open Opener
}

var _ Actions = (*Launcher)(nil)

// NewLauncher returns a Launcher using open.
func NewLauncher(open Opener) *Launcher {
	return &Launcher{open: open}
}

// Dial opens a tel: URL for phone. Failures are logged, not returned.
func (l *Launcher) Dial(ctx context.Context, phone string) {
	l.launch(ctx, DialURL(phone))
}

// OpenDirections opens a maps search for address.
func (l *Launcher) OpenDirections(ctx context.Context, address string) {
	l.launch(ctx, DirectionsURL(address))
}

func (l *Launcher) launch(ctx context.Context, rawURL string) {
	if err := l.open(ctx, rawURL); err != nil {
		log.Warn().Err(err).Str("url", rawURL).Msg("device: open failed")
	}
}

// DialURL returns the tel: URL for phone with whitespace removed.
func DialURL(phone string) string {
	return "tel:" + strings.Join(strings.Fields(phone), "")
}

// DirectionsURL returns the maps URL for address, query-escaped.
func DirectionsURL(address string) string {
	return MapsBaseURL + url.QueryEscape(address)
}

// ---------------------------------------------------------------------------
// Openers
// ---------------------------------------------------------------------------

// PrintOpener writes each URL as a line to w.
func PrintOpener(w io.Writer) Opener {
	return func(_ context.Context, rawURL string) error {
		_, err := fmt.Fprintln(w, rawURL)
		return err
	}
}

// SystemOpener hands each URL to the platform's default handler.
func SystemOpener() Opener {
	return func(ctx context.Context, rawURL string) error {
		var cmd *exec.Cmd
		switch runtime.GOOS {
		case "darwin":
			cmd = exec.CommandContext(ctx, "open", rawURL)
		case "windows":
			cmd = exec.CommandContext(ctx, "rundll32", "url.dll,FileProtocolHandler", rawURL)
		default:
			cmd = exec.CommandContext(ctx, "xdg-open", rawURL)
		}
		if err := cmd.Start(); err != nil {
			return fmt.Errorf("device.SystemOpener: %w", err)
		}
		go func() { _ = cmd.Wait() }()
		return nil
	}
}
