package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"scrcpyctl/internal/logging"
)

func init() {
	logging.ConfigureTests()
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{envStoreBackend, envStorePath, envADB, envScanHelper, envHelperTimeout, envLocale, "LC_ALL", "LC_MESSAGES", "LANG"} {
		t.Setenv(name, "")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scrcpyctl.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Backend != BackendFile || cfg.ADBPath != "adb" || cfg.Match != "scrcpy" || cfg.HelperTimeout != 5*time.Second {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if filepath.Base(cfg.StorePath) != "store.json" || !strings.Contains(cfg.StorePath, "scrcpyctl") {
		t.Fatalf("unexpected store path %q", cfg.StorePath)
	}
	if cfg.Locale != "" {
		t.Fatalf("expected no locale, got %q", cfg.Locale)
	}
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
backend = "sqlite"
store_path = "/tmp/scrcpyctl-test.db"
adb = "/opt/android/platform-tools/adb"
scan_helper = "/usr/lib/scrcpyctl/scan"
scan_args = ["--all"]
match = "scrcpy-server"
helper_timeout = "2s"
locale = "fr"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Backend != BackendSQLite || cfg.StorePath != "/tmp/scrcpyctl-test.db" {
		t.Fatalf("unexpected store config %+v", cfg)
	}
	if cfg.ADBPath != "/opt/android/platform-tools/adb" || cfg.ScanHelper != "/usr/lib/scrcpyctl/scan" {
		t.Fatalf("unexpected helper paths %+v", cfg)
	}
	if len(cfg.ScanArgs) != 1 || cfg.ScanArgs[0] != "--all" || cfg.Match != "scrcpy-server" {
		t.Fatalf("unexpected scan config %+v", cfg)
	}
	if cfg.HelperTimeout != 2*time.Second || cfg.Locale != "fr" {
		t.Fatalf("unexpected timeout/locale %+v", cfg)
	}
}

func TestLoadSQLiteDefaultPath(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(writeConfig(t, `backend = "sqlite"`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if filepath.Base(cfg.StorePath) != "store.db" {
		t.Fatalf("unexpected store path %q", cfg.StorePath)
	}
}

func TestLoadFileErrors(t *testing.T) {
	clearEnv(t)
	for _, body := range []string{
		`backend = "redis"`,
		`helper_timeout = "soon"`,
		`helper_timeout = "-1s"`,
		`backend = `,
	} {
		if _, err := Load(writeConfig(t, body)); err == nil {
			t.Fatalf("expected error for %q", body)
		}
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(envStoreBackend, "DAEMON")
	t.Setenv(envADB, "/usr/bin/adb")
	t.Setenv(envScanHelper, "/bin/scan")
	t.Setenv(envHelperTimeout, "750ms")
	t.Setenv(envLocale, "ru")

	cfg, err := Load(writeConfig(t, `backend = "sqlite"`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Backend != BackendDaemon || cfg.StorePath != "" {
		t.Fatalf("unexpected store config %+v", cfg)
	}
	if cfg.ADBPath != "/usr/bin/adb" || cfg.ScanHelper != "/bin/scan" {
		t.Fatalf("unexpected helper paths %+v", cfg)
	}
	if cfg.HelperTimeout != 750*time.Millisecond || cfg.Locale != "ru" {
		t.Fatalf("unexpected timeout/locale %+v", cfg)
	}
}

func TestInvalidEnvIgnored(t *testing.T) {
	clearEnv(t)
	t.Setenv(envStoreBackend, "redis")
	t.Setenv(envHelperTimeout, "0s")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Backend != BackendFile || cfg.HelperTimeout != 5*time.Second {
		t.Fatalf("invalid env must be ignored, got %+v", cfg)
	}
}

func TestSystemLocale(t *testing.T) {
	clearEnv(t)
	t.Setenv("LANG", "de_DE.UTF-8")
	if got := systemLocale(); got != "de-DE" {
		t.Fatalf("expected de-DE, got %q", got)
	}
	t.Setenv("LC_ALL", "C")
	if got := systemLocale(); got != "de-DE" {
		t.Fatalf("C locale must be skipped, got %q", got)
	}
}

func TestExpandHome(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()
	t.Setenv("HOME", home)
	if got := expandHome("~/x/store.json"); got != filepath.Join(home, "x/store.json") {
		t.Fatalf("unexpected expansion %q", got)
	}
	if got := expandHome("/abs"); got != "/abs" {
		t.Fatalf("unexpected path %q", got)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.StorePath = "/tmp/x.json"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bad := cfg
	bad.HelperTimeout = 0
	if bad.Validate() == nil {
		t.Fatal("expected timeout error")
	}
	bad = cfg
	bad.StorePath = ""
	if bad.Validate() == nil {
		t.Fatal("expected store path error")
	}
	bad.Backend = BackendDaemon
	if err := bad.Validate(); err != nil {
		t.Fatalf("daemon backend needs no path: %v", err)
	}
}
