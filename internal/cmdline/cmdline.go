// Package cmdline reads back the arguments of scrcpy processes that were
// launched with Build. It splits on whitespace only and does not undo shell
// quoting.
package cmdline

import (
	"regexp"
	"strings"
)

// ConnType is the transport a device serial implies.
type ConnType string

const (
	ConnUnknown ConnType = "unknown"
	ConnUSB     ConnType = "usb"
	ConnWiFi    ConnType = "wifi"
)

const (
	serialFlag      = "--serial"
	serialShortFlag = "-s"
	serialAssign    = serialFlag + "="
)

var ipv4PortRe = regexp.MustCompile(`^\d{1,3}(\.\d{1,3}){3}:\d+$`)

// ExtractSerial returns the value of the first --serial V, -s V or
// --serial=V argument, or "" when there is none.
func ExtractSerial(cmdline string) string {
	argv := strings.Fields(cmdline)
	for i, arg := range argv {
		if (arg == serialFlag || arg == serialShortFlag) && i+1 < len(argv) {
			return argv[i+1]
		}
		if value, ok := strings.CutPrefix(arg, serialAssign); ok {
			return value
		}
	}
	return ""
}

// InferConnType guesses the transport from the serial's shape: an IPv4
// host:port is wifi, anything else non-empty is usb.
func InferConnType(serial string) ConnType {
	switch {
	case serial == "":
		return ConnUnknown
	case ipv4PortRe.MatchString(serial):
		return ConnWiFi
	default:
		return ConnUSB
	}
}

// ExtractFlags returns the long (--) flags of cmdline in order, without the
// serial selection and without positional values.
func ExtractFlags(cmdline string) []string {
	argv := strings.Fields(cmdline)
	flags := make([]string, 0, len(argv))
	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		if !strings.HasPrefix(arg, "--") {
			continue
		}
		if arg == serialFlag {
			i++
			continue
		}
		if strings.HasPrefix(arg, serialAssign) {
			continue
		}
		flags = append(flags, arg)
	}
	return flags
}

// Build assembles scrcpy arguments targeting serial. args must already have
// passed flags.Validate.
func Build(serial string, args []string) []string {
	out := make([]string, 0, len(args)+2)
	if serial != "" {
		out = append(out, serialFlag, serial)
	}
	return append(out, args...)
}
