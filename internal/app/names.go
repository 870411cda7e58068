package app

import (
	"context"
	"strings"
)

// RenameParams selects an instance and its new name. A blank Name restores
// the generated name.
type RenameParams struct {
	Key     string
	Name    string
	Outside bool
}

// Rename stores a custom name and returns the name now displayed.
func (a *App) Rename(ctx context.Context, params RenameParams) (string, error) {
	key := strings.TrimSpace(params.Key)
	if key == "" {
		return "", errEmptyKey
	}
	book, err := a.instances(ctx)
	if err != nil {
		return "", err
	}
	book.SetCustomName(ctx, key, params.Name)
	return book.Label(ctx, key, params.Outside), nil
}

// Names returns the custom name map.
func (a *App) Names(ctx context.Context) (map[string]string, error) {
	book, err := a.instances(ctx)
	if err != nil {
		return nil, err
	}
	return book.Names(ctx), nil
}
