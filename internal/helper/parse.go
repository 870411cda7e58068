package helper

import (
	"strconv"
	"strings"
)

// scanFields is the minimum number of tab-separated fields in a scan row.
const scanFields = 6

// ProcessRecord is one row of scan helper output.
type ProcessRecord struct {
	PID        int
	UID        int
	StartTicks string // opaque; platform-specific counter
	Exe        string
	CmdHash    string // opaque
	Cmdline    string

	// BadID is set when pid or uid did not parse as a number. The row is
	// kept, but it cannot be identified reliably.
	BadID bool
}

// ParseScanOutput turns `pid\tuid\tstartticks\texe\tcmdhash\tcmdline...` rows
// into records. Malformed rows are dropped silently.
func ParseScanOutput(text string) []ProcessRecord {
	var out []ProcessRecord
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.Split(line, "\t")
		if len(parts) < scanFields {
			continue
		}
		pid, pidErr := strconv.Atoi(parts[0])
		uid, uidErr := strconv.Atoi(parts[1])
		out = append(out, ProcessRecord{
			PID:        pid,
			UID:        uid,
			StartTicks: parts[2],
			Exe:        parts[3],
			CmdHash:    parts[4],
			Cmdline:    strings.Join(parts[5:], "\t"),
			BadID:      pidErr != nil || uidErr != nil,
		})
	}
	return out
}

// ParseKVOutput parses `key=value` lines. Keys are trimmed, values are kept
// verbatim. Later duplicates win.
func ParseKVOutput(text string) map[string]string {
	out := make(map[string]string)
	for _, line := range strings.Split(text, "\n") {
		idx := strings.IndexByte(line, '=')
		if idx <= 0 {
			continue
		}
		out[strings.TrimSpace(line[:idx])] = line[idx+1:]
	}
	return out
}
