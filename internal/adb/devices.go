package adb

import (
	"strings"
)

const (
	headerPrefix = "List of devices"
	modelPrefix  = "model:"

	// StateDevice is the state adb reports for an online, authorized device.
	StateDevice = "device"

	cardIcon = "smartphone"
)

// Device is one entry of `adb devices -l`.
type Device struct {
	Serial string
	State  string
	Model  string
}

// Card is the projection of an online device shown to the user.
type Card struct {
	ID    string
	Title string
	Icon  string
}

// ParseDevices parses `adb devices -l` output. The header and malformed lines
// are skipped.
func ParseDevices(text string) []Device {
	var devices []Device
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, headerPrefix) {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) < 2 {
			continue
		}
		d := Device{Serial: parts[0], State: parts[1]}
		for _, prop := range parts[2:] {
			if model, ok := strings.CutPrefix(prop, modelPrefix); ok {
				d.Model = strings.ReplaceAll(model, "_", " ")
			}
		}
		devices = append(devices, d)
	}
	return devices
}

// Cards projects online devices to cards, in enumeration order. Unauthorized
// and offline devices are left out.
func Cards(devices []Device) []Card {
	cards := make([]Card, 0, len(devices))
	for _, d := range devices {
		if d.State != StateDevice {
			continue
		}
		title := d.Model
		if title == "" {
			title = d.Serial
		}
		cards = append(cards, Card{ID: d.Serial, Title: title, Icon: cardIcon})
	}
	return cards
}

// Online returns the serials of the online devices.
func Online(devices []Device) map[string]bool {
	online := make(map[string]bool, len(devices))
	for _, d := range devices {
		if d.State == StateDevice {
			online[d.Serial] = true
		}
	}
	return online
}
