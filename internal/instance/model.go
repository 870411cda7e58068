package instance

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Registry tracks which instance keys are active and the display number
// assigned to each. A number is in use only while its key is also active.
type Registry struct {
	Active  strset
	Numbers map[string]int
}

// NameMap maps an instance key to its custom display name. Absence means
// "use the generated name"; empty strings are never stored.
type NameMap map[string]string

// UnmarshalJSON keeps every entry it can read, so one bad value does not
// cost the others. Numbers and booleans keep their JSON text; null, objects
// and arrays are dropped.
func (m *NameMap) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	out := make(NameMap, len(raw))
	for key, value := range raw {
		value = bytes.TrimSpace(value)
		if len(value) == 0 {
			continue
		}
		switch value[0] {
		case '"':
			var s string
			if json.Unmarshal(value, &s) == nil {
				out[key] = s
			}
		case 'n', '{', '[':
		default:
			out[key] = string(value)
		}
	}
	*m = out
	return nil
}

// Template is a named, reusable set of scrcpy flags.
type Template struct {
	Name  string `json:"name"`
	Flags string `json:"flags"`
}

// FlagDefaults holds the default flag values remembered for one device.
type FlagDefaults map[string]any

// DeviceFlagsMap maps a device serial to its defaults.
type DeviceFlagsMap map[string]FlagDefaults

// UnmarshalJSON drops only the serials whose defaults are not an object.
func (m *DeviceFlagsMap) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	out := make(DeviceFlagsMap, len(raw))
	for serial, value := range raw {
		var defaults FlagDefaults
		if err := json.Unmarshal(value, &defaults); err != nil || defaults == nil {
			continue
		}
		out[serial] = defaults
	}
	*m = out
	return nil
}

// Formatter renders a generated instance name. msg is one of the Msg*
// message ids, n the allocated number.
type Formatter func(msg string, n int) string

// Message ids for generated names.
const (
	MsgInstance        = "scrcpy instance %d"
	MsgOutsideInstance = "scrcpy instance (outside) %d"
)

// Sprintf is the untranslated Formatter.
func Sprintf(msg string, n int) string {
	return fmt.Sprintf(msg, n)
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{Active: make(strset), Numbers: make(map[string]int)}
}
