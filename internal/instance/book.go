package instance

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"scrcpyctl/internal/store"
)

// Book owns the persisted instance maps. Each map has its own lock held for
// the whole load-modify-save sequence, so allocation stays consistent within
// one process. Across processes the last save wins.
type Book struct {
	store  store.Store
	format Formatter

	registryMu  sync.Mutex
	namesMu     sync.Mutex
	flagsMu     sync.Mutex
	templatesMu sync.Mutex
}

// NewBook returns a Book over s. A nil format uses Sprintf.
func NewBook(s store.Store, format Formatter) *Book {
	if format == nil {
		format = Sprintf
	}
	return &Book{store: s, format: format}
}

// Format exposes the Book's formatter.
func (b *Book) Format() Formatter {
	return b.format
}

func (b *Book) loadRegistry(ctx context.Context) *Registry {
	reg := store.GetValue(ctx, b.store, store.KeyInstanceRegistry, NewRegistry())
	if reg.Active == nil {
		reg.Active = make(strset)
	}
	if reg.Numbers == nil {
		reg.Numbers = make(map[string]int)
	}
	return reg
}

func (b *Book) saveRegistry(ctx context.Context, reg *Registry) {
	store.SetValue(ctx, b.store, store.KeyInstanceRegistry, reg, "{}")
}

// Registry returns a copy of the persisted registry.
func (b *Book) Registry(ctx context.Context) *Registry {
	b.registryMu.Lock()
	defer b.registryMu.Unlock()
	return b.loadRegistry(ctx)
}

// Track makes keys the active set, forgets the numbers of keys that are no
// longer active, and allocates numbers for new keys in the order given.
func (b *Book) Track(ctx context.Context, keys []string) *Registry {
	b.registryMu.Lock()
	defer b.registryMu.Unlock()

	reg := b.loadRegistry(ctx)
	reg.Active = make(strset, len(keys))
	for _, key := range keys {
		if key != "" {
			reg.Active.add(key)
		}
	}
	for key := range reg.Numbers {
		if !reg.Active.has(key) {
			delete(reg.Numbers, key)
		}
	}
	for _, key := range keys {
		if key != "" {
			EnsureNumber(reg, key)
		}
	}
	b.saveRegistry(ctx, reg)
	return reg
}

// Label returns the display name of key, allocating and saving a number
// first when the generated name is needed.
func (b *Book) Label(ctx context.Context, key string, outside bool) string {
	names := b.Names(ctx)

	b.registryMu.Lock()
	defer b.registryMu.Unlock()
	reg := b.loadRegistry(ctx)
	_, hadNumber := reg.Numbers[key]
	name := DisplayName(reg, names, key, outside, b.format)
	if _, has := reg.Numbers[key]; has && !hadNumber {
		b.saveRegistry(ctx, reg)
	}
	return name
}

// Names returns the custom name map.
func (b *Book) Names(ctx context.Context) NameMap {
	b.namesMu.Lock()
	defer b.namesMu.Unlock()
	return b.loadNames(ctx)
}

func (b *Book) loadNames(ctx context.Context) NameMap {
	names := store.GetValue(ctx, b.store, store.KeyNameMap, NameMap{})
	if names == nil {
		names = NameMap{}
	}
	return names
}

// SetCustomName stores the trimmed name for key. A blank name removes the
// override so the generated name is used again.
func (b *Book) SetCustomName(ctx context.Context, key, name string) {
	b.namesMu.Lock()
	defer b.namesMu.Unlock()

	names := b.loadNames(ctx)
	if normalized := NormalizeName(name); normalized != "" {
		names[key] = normalized
	} else {
		delete(names, key)
	}
	store.SetValue(ctx, b.store, store.KeyNameMap, names, "{}")
}

// Templates returns the stored templates in order. Null or unreadable
// entries and entries with a blank name are skipped.
func (b *Book) Templates(ctx context.Context) []Template {
	b.templatesMu.Lock()
	defer b.templatesMu.Unlock()
	return b.loadTemplates(ctx)
}

func (b *Book) loadTemplates(ctx context.Context) []Template {
	raw := store.GetValue(ctx, b.store, store.KeyTemplates, []json.RawMessage{})
	out := make([]Template, 0, len(raw))
	for _, entry := range raw {
		var tpl *Template
		if err := json.Unmarshal(entry, &tpl); err != nil {
			continue
		}
		if tpl != nil && strings.TrimSpace(tpl.Name) != "" {
			out = append(out, *tpl)
		}
	}
	return out
}

// UpsertTemplate replaces the template with the same trimmed name in place,
// or appends a new one. A blank name is ignored.
func (b *Book) UpsertTemplate(ctx context.Context, name, flags string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}

	b.templatesMu.Lock()
	defer b.templatesMu.Unlock()

	templates := b.loadTemplates(ctx)
	tpl := Template{Name: name, Flags: flags}
	replaced := false
	for i := range templates {
		if strings.TrimSpace(templates[i].Name) == name {
			templates[i] = tpl
			replaced = true
			break
		}
	}
	if !replaced {
		templates = append(templates, tpl)
	}
	store.SetValue(ctx, b.store, store.KeyTemplates, templates, "[]")
}

// RemoveTemplate deletes every template whose trimmed name is name.
func (b *Book) RemoveTemplate(ctx context.Context, name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}

	b.templatesMu.Lock()
	defer b.templatesMu.Unlock()

	templates := b.loadTemplates(ctx)
	kept := templates[:0]
	for _, tpl := range templates {
		if strings.TrimSpace(tpl.Name) != name {
			kept = append(kept, tpl)
		}
	}
	store.SetValue(ctx, b.store, store.KeyTemplates, kept, "[]")
}

// DeviceFlags returns the defaults for serial, or an empty map.
func (b *Book) DeviceFlags(ctx context.Context, serial string) FlagDefaults {
	b.flagsMu.Lock()
	defer b.flagsMu.Unlock()

	all := store.GetValue(ctx, b.store, store.KeyDeviceFlags, DeviceFlagsMap{})
	if flags := all[serial]; flags != nil {
		return flags
	}
	return FlagDefaults{}
}

// SetDeviceFlags replaces the defaults for serial. An empty map removes the
// entry.
func (b *Book) SetDeviceFlags(ctx context.Context, serial string, flags FlagDefaults) {
	b.flagsMu.Lock()
	defer b.flagsMu.Unlock()

	all := store.GetValue(ctx, b.store, store.KeyDeviceFlags, DeviceFlagsMap{})
	if all == nil {
		all = DeviceFlagsMap{}
	}
	if len(flags) == 0 {
		delete(all, serial)
	} else {
		all[serial] = flags
	}
	store.SetValue(ctx, b.store, store.KeyDeviceFlags, all, "{}")
}
