package instance

import "strings"

// NormalizeName trims a user-entered name. An empty result means "no custom
// name".
func NormalizeName(raw string) string {
	return strings.TrimSpace(raw)
}

// DefaultName returns the generated name for key, allocating a number in reg
// if key has none yet. The caller saves reg.
func DefaultName(reg *Registry, key string, outside bool, format Formatter) string {
	if format == nil {
		format = Sprintf
	}
	n := EnsureNumber(reg, key)
	if outside {
		return format(MsgOutsideInstance, n)
	}
	return format(MsgInstance, n)
}

// DisplayName returns the custom name for key when one is set and not blank,
// else the generated name.
func DisplayName(reg *Registry, names NameMap, key string, outside bool, format Formatter) string {
	if name, ok := names[key]; ok && NormalizeName(name) != "" {
		return name
	}
	return DefaultName(reg, key, outside, format)
}
