package app

import (
	"context"
	"fmt"
	"strings"

	"scrcpyctl/internal/cmdline"
	"scrcpyctl/internal/flags"
)

// LaunchParams describes a scrcpy invocation.
type LaunchParams struct {
	Serial   string
	Template string
	Flags    string
}

// CheckFlags validates free-form flag input.
func (a *App) CheckFlags(raw string) flags.Result {
	return flags.Validate(raw)
}

// LaunchArgs returns the scrcpy argv for params: the device defaults, then
// the template flags, then the extra flags, all validated, behind
// --serial. Nothing is executed.
func (a *App) LaunchArgs(ctx context.Context, params LaunchParams) ([]string, error) {
	serial := strings.TrimSpace(params.Serial)
	var args []string

	if serial != "" {
		defaults, err := a.DeviceFlags(ctx, serial)
		if err != nil {
			return nil, err
		}
		args = append(args, DefaultArgs(defaults)...)
	}

	if strings.TrimSpace(params.Template) != "" {
		tpl, err := a.template(ctx, params.Template)
		if err != nil {
			return nil, err
		}
		res := flags.Validate(tpl.Flags)
		if err := res.Err(); err != nil {
			return nil, fmt.Errorf("template %q: %w", tpl.Name, err)
		}
		args = append(args, res.Args...)
	}

	res := flags.Validate(params.Flags)
	if err := res.Err(); err != nil {
		return nil, err
	}
	args = append(args, res.Args...)

	if bad := flags.DetectForbidden(args); bad != "" {
		return nil, &flags.ValidationError{Code: flags.CodeForbiddenFlag, ForbiddenFlag: bad}
	}
	return cmdline.Build(serial, args), nil
}
