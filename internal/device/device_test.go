package device_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/go-ports/ecorewards/internal/device"
)

func TestURLs_HappyPath(t *testing.T) {
	c := qt.New(t)

	c.Assert(device.DialURL("+1 555 0101"), qt.Equals, "tel:+15550101")
	c.Assert(device.DirectionsURL("654 Market Lane, Springfield"), qt.Equals,
		device.MapsBaseURL+"654+Market+Lane%2C+Springfield")
	c.Assert(device.DirectionsURL("A & B"), qt.Equals, device.MapsBaseURL+"A+%26+B")
}

func TestLauncher_HappyPath(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()

	var buf bytes.Buffer
	l := device.NewLauncher(device.PrintOpener(&buf))
	l.Dial(ctx, "555 0102")
	l.OpenDirections(ctx, "1 Main St")
	c.Assert(buf.String(), qt.Equals, "tel:5550102\n"+device.MapsBaseURL+"1+Main+St\n")
}

func TestLauncher_OpenFailureIsSwallowed(t *testing.T) {
	c := qt.New(t)

	calls := 0
	l := device.NewLauncher(func(context.Context, string) error {
		calls++
		return errors.New("no handler")
	})
	l.Dial(context.Background(), "1")
	c.Assert(calls, qt.Equals, 1)
}
