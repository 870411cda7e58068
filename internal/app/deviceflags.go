package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"scrcpyctl/internal/flags"
	"scrcpyctl/internal/helper"
	"scrcpyctl/internal/instance"
)

// SetDeviceFlagsParams replaces a device's default flags. Keys are flag
// names with or without leading dashes. An empty map clears the defaults.
type SetDeviceFlagsParams struct {
	Serial string
	Flags  instance.FlagDefaults
}

// DeviceFlags returns the defaults remembered for serial.
func (a *App) DeviceFlags(ctx context.Context, serial string) (instance.FlagDefaults, error) {
	serial = strings.TrimSpace(serial)
	if serial == "" {
		return nil, errors.New("device serial is required")
	}
	book, err := a.instances(ctx)
	if err != nil {
		return nil, err
	}
	return book.DeviceFlags(ctx, serial), nil
}

// SetDeviceFlags stores defaults for a device after checking that none of
// them selects a device or transport.
func (a *App) SetDeviceFlags(ctx context.Context, params SetDeviceFlagsParams) error {
	serial := strings.TrimSpace(params.Serial)
	if serial == "" {
		return errors.New("device serial is required")
	}
	clean := make(instance.FlagDefaults, len(params.Flags))
	for key, value := range params.Flags {
		name := strings.TrimLeft(strings.TrimSpace(key), "-")
		if name == "" {
			return fmt.Errorf("invalid flag name %q", key)
		}
		clean[name] = value
	}
	if bad := flags.DetectForbidden(DefaultArgs(clean)); bad != "" {
		return &flags.ValidationError{Code: flags.CodeForbiddenFlag, ForbiddenFlag: bad}
	}
	book, err := a.instances(ctx)
	if err != nil {
		return err
	}
	book.SetDeviceFlags(ctx, serial, clean)
	return nil
}

// ParseFlagDefaults reads key=value lines. Leading dashes on keys are
// dropped. "true" and "false" become booleans; everything else stays text.
func ParseFlagDefaults(text string) instance.FlagDefaults {
	out := make(instance.FlagDefaults)
	for key, value := range helper.ParseKVOutput(text) {
		if key = strings.TrimLeft(key, "-"); key == "" {
			continue
		}
		switch value = strings.TrimSpace(value); value {
		case "true":
			out[key] = true
		case "false":
			out[key] = false
		default:
			out[key] = value
		}
	}
	return out
}

// DefaultArgs renders defaults as long flags in key order: true becomes
// --key, false and null are left out, anything else becomes --key=value.
func DefaultArgs(defaults instance.FlagDefaults) []string {
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := make([]string, 0, len(keys))
	for _, k := range keys {
		flag := "--" + strings.TrimLeft(k, "-")
		switch v := defaults[k].(type) {
		case nil:
		case bool:
			if v {
				args = append(args, flag)
			}
		case string:
			if v == "" {
				args = append(args, flag)
			} else {
				args = append(args, flag+"="+v)
			}
		case float64:
			args = append(args, flag+"="+strconv.FormatFloat(v, 'f', -1, 64))
		default:
			args = append(args, fmt.Sprintf("%s=%v", flag, v))
		}
	}
	return args
}
