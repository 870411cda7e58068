package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog/log"
)

// Backend selects where the key-value config store lives.
type Backend string

const (
	BackendFile   Backend = "file"
	BackendSQLite Backend = "sqlite"
	BackendDaemon Backend = "daemon"
)

const (
	defaultBackend       = BackendFile
	defaultADB           = "adb"
	defaultMatch         = "scrcpy"
	defaultHelperTimeout = 5 * time.Second
	appDir               = "scrcpyctl"

	envStoreBackend  = "SCRCPYCTL_STORE_BACKEND"
	envStorePath     = "SCRCPYCTL_STORE_PATH"
	envADB           = "SCRCPYCTL_ADB"
	envScanHelper    = "SCRCPYCTL_SCAN_HELPER"
	envHelperTimeout = "SCRCPYCTL_HELPER_TIMEOUT"
	envLocale        = "SCRCPYCTL_LOCALE"
)

// Config aggregates everything the front ends need to reach devices, the
// scan helper and the config store.
type Config struct {
	Backend   Backend
	StorePath string

	ADBPath    string
	ScanHelper string
	ScanArgs   []string
	// Match is the executable name the native /proc scanner looks for.
	Match         string
	HelperTimeout time.Duration

	Locale string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Backend:       defaultBackend,
		ADBPath:       defaultADB,
		Match:         defaultMatch,
		HelperTimeout: defaultHelperTimeout,
	}
}

// Load builds a Config from defaults, an optional TOML file and environment
// overrides. A bad file is an error; a bad environment value is logged and
// ignored.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	applyEnvOverrides(&cfg)
	if cfg.Locale == "" {
		cfg.Locale = systemLocale()
	}
	if cfg.StorePath == "" {
		p, err := DefaultStorePath(cfg.Backend)
		if err != nil {
			return cfg, err
		}
		cfg.StorePath = p
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if !validBackend(c.Backend) {
		return fmt.Errorf("unknown store backend %q (want file, sqlite or daemon)", c.Backend)
	}
	if c.Backend != BackendDaemon && strings.TrimSpace(c.StorePath) == "" {
		return errors.New("store path is required")
	}
	if strings.TrimSpace(c.ADBPath) == "" {
		return errors.New("adb path is required")
	}
	if c.HelperTimeout <= 0 {
		return errors.New("helper_timeout must be > 0")
	}
	return nil
}

// DefaultStorePath returns the per-user store location for backend.
func DefaultStorePath(backend Backend) (string, error) {
	if backend == BackendDaemon {
		return "", nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	name := "store.json"
	if backend == BackendSQLite {
		name = "store.db"
	}
	return filepath.Join(dir, appDir, name), nil
}

func validBackend(b Backend) bool {
	switch b {
	case BackendFile, BackendSQLite, BackendDaemon:
		return true
	}
	return false
}

type fileConfig struct {
	Backend       string   `toml:"backend"`
	StorePath     string   `toml:"store_path"`
	ADB           string   `toml:"adb"`
	ScanHelper    string   `toml:"scan_helper"`
	ScanArgs      []string `toml:"scan_args"`
	Match         string   `toml:"match"`
	HelperTimeout string   `toml:"helper_timeout"`
	Locale        string   `toml:"locale"`
}

func loadFromFile(path string, cfg *Config) error {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return err
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		log.Warn().Str("path", path).Stringer("key", undecoded[0]).Msg("unknown config key ignored")
	}

	if meta.IsDefined("backend") {
		b := Backend(strings.ToLower(strings.TrimSpace(raw.Backend)))
		if !validBackend(b) {
			return fmt.Errorf("unknown backend %q", raw.Backend)
		}
		cfg.Backend = b
	}
	if meta.IsDefined("store_path") {
		cfg.StorePath = expandHome(strings.TrimSpace(raw.StorePath))
	}
	if meta.IsDefined("adb") {
		cfg.ADBPath = strings.TrimSpace(raw.ADB)
	}
	if meta.IsDefined("scan_helper") {
		cfg.ScanHelper = expandHome(strings.TrimSpace(raw.ScanHelper))
	}
	if meta.IsDefined("scan_args") {
		cfg.ScanArgs = raw.ScanArgs
	}
	if meta.IsDefined("match") {
		if m := strings.TrimSpace(raw.Match); m != "" {
			cfg.Match = m
		}
	}
	if meta.IsDefined("helper_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.HelperTimeout))
		if err != nil {
			return fmt.Errorf("parse helper_timeout: %w", err)
		}
		if d <= 0 {
			return errors.New("helper_timeout must be > 0")
		}
		cfg.HelperTimeout = d
	}
	if meta.IsDefined("locale") {
		cfg.Locale = strings.TrimSpace(raw.Locale)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(envStoreBackend); v != "" {
		if b := Backend(strings.ToLower(strings.TrimSpace(v))); validBackend(b) {
			cfg.Backend = b
		} else {
			log.Warn().Str("env", envStoreBackend).Str("value", v).Msg("invalid store backend ignored")
		}
	}
	if v := os.Getenv(envStorePath); v != "" {
		cfg.StorePath = expandHome(v)
	}
	if v := os.Getenv(envADB); v != "" {
		cfg.ADBPath = v
	}
	if v := os.Getenv(envScanHelper); v != "" {
		cfg.ScanHelper = expandHome(v)
	}
	if v := os.Getenv(envHelperTimeout); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.HelperTimeout = d
		} else {
			log.Warn().Err(err).Str("env", envHelperTimeout).Str("value", v).Msg("invalid helper timeout ignored")
		}
	}
	if v := os.Getenv(envLocale); v != "" {
		cfg.Locale = v
	}
}

// systemLocale turns LC_ALL or LANG (de_DE.UTF-8) into a BCP 47 tag (de-DE).
func systemLocale() string {
	for _, name := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		v := os.Getenv(name)
		if v == "" || v == "C" || v == "POSIX" {
			continue
		}
		if i := strings.IndexAny(v, ".@"); i >= 0 {
			v = v[:i]
		}
		return strings.ReplaceAll(v, "_", "-")
	}
	return ""
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
