// Package inventory joins scanned scrcpy instances with the enumerated
// devices for display.
package inventory

import (
	"sort"

	"scrcpyctl/internal/adb"
	"scrcpyctl/internal/cmdline"
	"scrcpyctl/internal/helper"
	"scrcpyctl/internal/instance"
)

// UnknownSerial groups instances whose command line names no device.
const UnknownSerial = "__UNKNOWN__"

// Instance is a running scrcpy process as shown to the user.
type Instance struct {
	Key    string
	Serial string
	Conn   cmdline.ConnType
	Flags  []string
	Number int
	Name   string
	// Custom is set when Name is a user-chosen name.
	Custom bool
	// Outside is set when the instance targets no enumerated online device.
	Outside bool
	Record  helper.ProcessRecord
}

// Describe derives the device-facing fields of rec. Naming is left to the
// caller.
func Describe(rec helper.ProcessRecord, online map[string]bool) Instance {
	serial := cmdline.ExtractSerial(rec.Cmdline)
	return Instance{
		Key:     instance.Key(rec),
		Serial:  serial,
		Conn:    cmdline.InferConnType(serial),
		Flags:   cmdline.ExtractFlags(rec.Cmdline),
		Outside: serial == "" || !online[serial],
		Record:  rec,
	}
}

// Group is one device section. Card is nil for serials that are not
// enumerated and for UnknownSerial.
type Group struct {
	Serial    string
	Card      *adb.Card
	Instances []Instance
}

// GroupBySerial buckets instances by serial, using UnknownSerial for an
// empty one. Order within a bucket follows the input.
func GroupBySerial(instances []Instance) map[string][]Instance {
	groups := make(map[string][]Instance)
	for _, inst := range instances {
		serial := inst.Serial
		if serial == "" {
			serial = UnknownSerial
		}
		groups[serial] = append(groups[serial], inst)
	}
	return groups
}

// Join returns one group per card in card order, then one group per other
// serial in lexical order, then the UnknownSerial group. Every instance
// appears exactly once.
func Join(cards []adb.Card, instances []Instance) []Group {
	bySerial := GroupBySerial(instances)
	out := make([]Group, 0, len(cards)+len(bySerial))

	seen := make(map[string]bool, len(cards))
	for i := range cards {
		card := cards[i]
		if seen[card.ID] {
			continue
		}
		seen[card.ID] = true
		out = append(out, Group{Serial: card.ID, Card: &card, Instances: bySerial[card.ID]})
	}

	var rest []string
	for serial := range bySerial {
		if !seen[serial] && serial != UnknownSerial {
			rest = append(rest, serial)
		}
	}
	sort.Strings(rest)
	for _, serial := range rest {
		out = append(out, Group{Serial: serial, Instances: bySerial[serial]})
	}

	if unknown := bySerial[UnknownSerial]; len(unknown) > 0 {
		out = append(out, Group{Serial: UnknownSerial, Instances: unknown})
	}
	return out
}

// Count returns the number of instances across groups.
func Count(groups []Group) int {
	n := 0
	for _, g := range groups {
		n += len(g.Instances)
	}
	return n
}
