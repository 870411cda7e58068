package instance

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"scrcpyctl/internal/helper"
)

// numbersField holds the number map inside the persisted registry object.
const numbersField = "_numbers"

// Key returns the identity of a running process: pid:startticks:uid. It is
// stable across scans of the same process and changes when the pid is
// recycled, because the start ticks differ. Records whose pid or uid did not
// parse get "" and must not be numbered or named.
func Key(rec helper.ProcessRecord) string {
	if !Identifiable(rec) {
		return ""
	}
	return strconv.Itoa(rec.PID) + ":" + rec.StartTicks + ":" + strconv.Itoa(rec.UID)
}

// Identifiable reports whether rec carries a usable identity.
func Identifiable(rec helper.ProcessRecord) bool {
	return !rec.BadID
}

// NextFreeNumber returns the smallest positive number not held by an active,
// numbered key other than excludeKey. Numbers of inactive keys are reused.
func NextFreeNumber(reg *Registry, excludeKey string) int {
	used := make(map[int]bool, len(reg.Numbers))
	for key, n := range reg.Numbers {
		if key == excludeKey || n <= 0 || !reg.Active.has(key) {
			continue
		}
		used[n] = true
	}
	n := 1
	for used[n] {
		n++
	}
	return n
}

// EnsureNumber returns the number assigned to key, allocating and recording
// one first if needed. Repeated calls do not change the registry.
func EnsureNumber(reg *Registry, key string) int {
	if reg.Numbers == nil {
		reg.Numbers = make(map[string]int)
	}
	if n, ok := reg.Numbers[key]; ok && n > 0 {
		return n
	}
	n := NextFreeNumber(reg, key)
	reg.Numbers[key] = n
	return n
}

// MarshalJSON writes the flat legacy shape:
// {"<key>": true, ..., "_numbers": {"<key>": n}}.
func (r Registry) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Active)+1)
	for key := range r.Active {
		out[key] = true
	}
	numbers := r.Numbers
	if numbers == nil {
		numbers = map[string]int{}
	}
	out[numbersField] = numbers
	return json.Marshal(out)
}

// UnmarshalJSON reads the flat legacy shape. Keys with a truthy value are
// active; non-positive or fractional numbers are dropped.
func (r *Registry) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	r.Active = make(strset, len(raw))
	r.Numbers = make(map[string]int)
	for key, value := range raw {
		if key != numbersField {
			if truthy(value) {
				r.Active.add(key)
			}
			continue
		}
		var numbers map[string]json.RawMessage
		if err := json.Unmarshal(value, &numbers); err != nil {
			continue
		}
		for nk, nv := range numbers {
			if n, ok := positiveInt(nv); ok {
				r.Numbers[nk] = n
			}
		}
	}
	return nil
}

func truthy(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return false
	}
	switch raw[0] {
	case 't', '{', '[':
		return true
	case 'f', 'n':
		return false
	case '"':
		var s string
		return json.Unmarshal(raw, &s) == nil && s != ""
	default:
		f, err := strconv.ParseFloat(string(raw), 64)
		return err == nil && f != 0
	}
}

func positiveInt(raw json.RawMessage) (int, bool) {
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		var s string
		if json.Unmarshal(raw, &s) != nil {
			return 0, false
		}
		if f, err = strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
			return 0, false
		}
	}
	if f <= 0 || f != math.Trunc(f) || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}
