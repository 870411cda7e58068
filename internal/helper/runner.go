package helper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

const defaultTimeout = 5 * time.Second

// Runner executes the external helpers and returns their stdout verbatim.
type Runner struct {
	ADBPath    string
	ScanHelper string
	ScanArgs   []string
	Timeout    time.Duration

	// Proc is used by Scan when no scan helper is configured.
	Proc ProcScanner
}

// Devices runs `adb devices -l`.
func (r Runner) Devices(ctx context.Context) (string, error) {
	adb := r.ADBPath
	if adb == "" {
		adb = "adb"
	}
	out, err := r.run(ctx, adb, "devices", "-l")
	if err != nil {
		return "", fmt.Errorf("adb devices: %w", err)
	}
	return out, nil
}

// Scan returns process rows in the scan helper format.
func (r Runner) Scan(ctx context.Context) (string, error) {
	if strings.TrimSpace(r.ScanHelper) == "" {
		return r.Proc.Scan()
	}
	out, err := r.run(ctx, r.ScanHelper, r.ScanArgs...)
	if err != nil {
		return "", fmt.Errorf("scan helper: %w", err)
	}
	return out, nil
}

// Probe runs the scan helper in probe mode, which prints key=value lines
// describing the helper environment.
func (r Runner) Probe(ctx context.Context) (map[string]string, error) {
	if strings.TrimSpace(r.ScanHelper) == "" {
		return nil, errors.New("no scan helper configured")
	}
	args := append(append([]string(nil), r.ScanArgs...), "--probe")
	out, err := r.run(ctx, r.ScanHelper, args...)
	if err != nil {
		return nil, fmt.Errorf("probe helper: %w", err)
	}
	return ParseKVOutput(out), nil
}

func (r Runner) run(ctx context.Context, name string, args ...string) (string, error) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("%w: %s", err, msg)
		}
		return "", err
	}
	return stdout.String(), nil
}
