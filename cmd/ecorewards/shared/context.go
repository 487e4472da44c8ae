// Package shared holds the context passed to all CLI commands.
package shared

import (
	"github.com/go-ports/ecorewards/internal/config"
)

// Context carries global CLI state (flags set on the root command).
type Context struct {
	// Home overrides the app home directory.
	// When empty, resolution falls through to ECOREWARDS_HOME env var → persisted config → ~/.ecorewards.
	Home string

	// LogLevel and LogFormat override the log section of config.yaml.
	LogLevel  string
	LogFormat string
}

// ResolveHome returns the effective home and where it came from.
func (c *Context) ResolveHome() config.Home {
	return config.ResolveHome(c.Home)
}

// HomeDir returns the effective home.
func (c *Context) HomeDir() string {
	return c.ResolveHome().Path
}
