// Package config handles configuration loading and app home resolution.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// Config types
// ---------------------------------------------------------------------------

// Store drivers.
const (
	DriverSQLite = "sqlite"
	DriverFiles  = "files"
)

// StoreConfig selects and tunes the entitlement record store.
type StoreConfig struct {
	Driver       string        // "sqlite" | "files"
	PollInterval time.Duration // sqlite driver only
	Collection   string
}

// ListingsConfig points at an optional listing dataset.
type ListingsConfig struct {
	Path string // empty means the built-in seed
}

// LogConfig controls the zerolog output.
type LogConfig struct {
	Level  string // "debug" | "info" | "warn" | "error" | "disabled"
	Format string // "auto" | "json" | "console"
}

// Config is the root per-home configuration.
type Config struct {
	Store    StoreConfig
	Listings ListingsConfig
	Log      LogConfig
}

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Driver:       DriverSQLite,
			PollInterval: 500 * time.Millisecond,
			Collection:   "users",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "auto",
		},
	}
}

// Load reads config.yaml from path.
// If the file does not exist it returns Default() with no error.
// Missing keys retain their default values.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	// Unmarshal into a plain map so we can apply only the keys that are present.
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	if st, ok := raw["store"].(map[string]any); ok {
		if v, ok := st["driver"].(string); ok && v != "" {
			v = strings.ToLower(v)
			if v != DriverSQLite && v != DriverFiles {
				return nil, fmt.Errorf("config.Load: unknown store.driver %q", v)
			}
			cfg.Store.Driver = v
		}
		if v, ok := st["poll_interval"].(string); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil || d <= 0 {
				return nil, fmt.Errorf("config.Load: invalid store.poll_interval %q", v)
			}
			cfg.Store.PollInterval = d
		}
		if v, ok := st["collection"].(string); ok && strings.Trim(v, "/") != "" {
			cfg.Store.Collection = strings.Trim(v, "/")
		}
	}

	if ls, ok := raw["listings"].(map[string]any); ok {
		if v, ok := ls["path"].(string); ok {
			cfg.Listings.Path = v
		}
	}

	if lg, ok := raw["log"].(map[string]any); ok {
		if v, ok := lg["level"].(string); ok && v != "" {
			cfg.Log.Level = v
		}
		if v, ok := lg["format"].(string); ok && v != "" {
			cfg.Log.Format = v
		}
	}

	return cfg, nil
}

// Save writes cfg to path in the layout Load reads.
func Save(path string, cfg *Config) error {
	doc := map[string]any{
		"store": map[string]any{
			"driver":        cfg.Store.Driver,
			"poll_interval": cfg.Store.PollInterval.String(),
			"collection":    cfg.Store.Collection,
		},
		"listings": map[string]any{"path": cfg.Listings.Path},
		"log": map[string]any{
			"level":  cfg.Log.Level,
			"format": cfg.Log.Format,
		},
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o600)
}

// ---------------------------------------------------------------------------
// Home resolution
// ---------------------------------------------------------------------------

// HomeEnv overrides the app home directory.
const HomeEnv = "ECOREWARDS_HOME"

// HomeSource tells where a resolved home came from.
type HomeSource string

const (
	SourceFlag    HomeSource = "flag"
	SourceEnv     HomeSource = "env"
	SourceConfig  HomeSource = "config"
	SourceDefault HomeSource = "default"
)

// Home is a resolved app home directory.
type Home struct {
	Path   string
	Source HomeSource
}

// ResolveHome picks the app home. An explicit override (the --home flag)
// wins, then $ECOREWARDS_HOME, then the persisted global setting, then
// ~/.ecorewards. Candidates that cannot be used are logged and skipped.
func ResolveHome(override string) Home {
	explicit := []struct {
		value  string
		source HomeSource
	}{
		{override, SourceFlag},
		{os.Getenv(HomeEnv), SourceEnv},
	}
	for _, cand := range explicit {
		if strings.TrimSpace(cand.value) == "" {
			continue
		}
		p, err := expandHome(cand.value)
		if err != nil {
			log.Warn().Err(err).Str("source", string(cand.source)).Msg("config: ignoring home")
			continue
		}
		return Home{Path: p, Source: cand.source}
	}

	switch p, ok, err := GetPersistedHome(); {
	case err != nil:
		log.Warn().Err(err).Msg("config: ignoring persisted home")
	case ok:
		return Home{Path: p, Source: SourceConfig}
	}

	userHome, _ := os.UserHomeDir()
	return Home{Path: filepath.Join(userHome, ".ecorewards"), Source: SourceDefault}
}

// expandHome expands ~ and environment variables and makes path absolute.
func expandHome(path string) (string, error) {
	path = os.ExpandEnv(strings.TrimSpace(path))
	if path == "~" || strings.HasPrefix(path, "~/") {
		userHome, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(userHome, strings.TrimPrefix(path[1:], "/"))
	}
	return filepath.Abs(path)
}

// globalConfig is the per-user file at ~/.config/ecorewards/config.yaml. Keys
// other than home are kept as they are.
type globalConfig struct {
	Home  string         `yaml:"home,omitempty"`
	Other map[string]any `yaml:",inline"`
}

func globalConfigPath() (string, error) {
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(userHome, ".config", "ecorewards", "config.yaml"), nil
}

// readGlobal returns the global config and its location. A missing file
// reads as empty.
func readGlobal() (globalConfig, string, error) {
	path, err := globalConfigPath()
	if err != nil {
		return globalConfig{}, "", err
	}
	var g globalConfig
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return g, path, nil
	}
	if err != nil {
		return g, path, err
	}
	if err := yaml.Unmarshal(data, &g); err != nil {
		return globalConfig{}, path, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return g, path, nil
}

// writeGlobal stores g at path, removing the file once nothing is left in it.
func writeGlobal(path string, g globalConfig) error {
	if g.Home == "" && len(g.Other) == 0 {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		return nil
	}
	out, err := yaml.Marshal(g)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o600)
}

// GetPersistedHome reads home from the global config.
// Returns ("", false, nil) if not set.
func GetPersistedHome() (string, bool, error) {
	g, _, err := readGlobal()
	if err != nil {
		return "", false, err
	}
	if strings.TrimSpace(g.Home) == "" {
		return "", false, nil
	}
	p, err := expandHome(g.Home)
	if err != nil {
		return "", false, err
	}
	return p, true, nil
}

// SetPersistedHome stores path, made absolute, in the global config and
// returns the stored value.
func SetPersistedHome(path string) (string, error) {
	normalized, err := expandHome(path)
	if err != nil {
		return "", err
	}
	g, cfgPath, err := readGlobal()
	if err != nil {
		return "", err
	}
	g.Home = normalized
	if err := writeGlobal(cfgPath, g); err != nil {
		return "", err
	}
	return normalized, nil
}

// ClearPersistedHome removes home from the global config and reports whether
// it was set.
func ClearPersistedHome() (bool, error) {
	g, cfgPath, err := readGlobal()
	if err != nil {
		return false, err
	}
	if g.Home == "" {
		return false, nil
	}
	g.Home = ""
	return true, writeGlobal(cfgPath, g)
}
