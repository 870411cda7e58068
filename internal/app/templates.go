package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"scrcpyctl/internal/flags"
	"scrcpyctl/internal/instance"
)

// SaveTemplateParams names a flag template.
type SaveTemplateParams struct {
	Name  string
	Flags string
}

// Templates lists stored templates in order.
func (a *App) Templates(ctx context.Context) ([]instance.Template, error) {
	book, err := a.instances(ctx)
	if err != nil {
		return nil, err
	}
	return book.Templates(ctx), nil
}

// SaveTemplate validates the flags and stores them in sanitized form,
// replacing a template with the same name.
func (a *App) SaveTemplate(ctx context.Context, params SaveTemplateParams) (flags.Result, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return flags.Result{}, errors.New("template name is required")
	}
	res := flags.Validate(params.Flags)
	if err := res.Err(); err != nil {
		return res, fmt.Errorf("template %q: %w", name, err)
	}
	book, err := a.instances(ctx)
	if err != nil {
		return res, err
	}
	book.UpsertTemplate(ctx, name, res.Sanitized)
	return res, nil
}

// DeleteTemplate removes the template called name.
func (a *App) DeleteTemplate(ctx context.Context, name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("template name is required")
	}
	book, err := a.instances(ctx)
	if err != nil {
		return err
	}
	book.RemoveTemplate(ctx, name)
	return nil
}

func (a *App) template(ctx context.Context, name string) (instance.Template, error) {
	templates, err := a.Templates(ctx)
	if err != nil {
		return instance.Template{}, err
	}
	name = strings.TrimSpace(name)
	for _, tpl := range templates {
		if strings.TrimSpace(tpl.Name) == name {
			return tpl, nil
		}
	}
	return instance.Template{}, fmt.Errorf("template %q not found", name)
}
