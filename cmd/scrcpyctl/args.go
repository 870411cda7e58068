package main

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/spf13/cobra"
)

// passthroughArgs splits the arguments of a command whose trailing words are
// scrcpy flags. cobra is told to stop parsing at the first positional word
// (see keepScrcpyFlags), so a "--" right after it is still present; it is
// dropped here.
func passthroughArgs(args []string, fixed int) ([]string, []string) {
	if len(args) <= fixed {
		return args, nil
	}
	head, tail := args[:fixed], args[fixed:]
	if tail[0] == "--" {
		tail = tail[1:]
	}
	return head, tail
}

// keepScrcpyFlags makes cmd stop flag parsing at its first positional word so
// the scrcpy flags after it reach RunE untouched.
func keepScrcpyFlags(cmd *cobra.Command) {
	cmd.Flags().SetInterspersed(false)
}

// rawCommandArgs handles the global flags cobra leaves in args for a command
// with flag parsing disabled. Leading --config values are applied and a
// leading -h/--help asks for usage. Parsing stops at the first other word; a
// "--" there is dropped. The -c shorthand is not read here because scrcpy
// has flags of the same shape; pass it before the command name instead.
func rawCommandArgs(args []string) (rest []string, help bool, err error) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--":
			return args[i+1:], false, nil
		case arg == "-h" || arg == "--help":
			return nil, true, nil
		case arg == "--config":
			if i+1 >= len(args) {
				return nil, false, fmt.Errorf("flag needs an argument: %s", arg)
			}
			i++
			configPath = args[i]
		case strings.HasPrefix(arg, "--config="):
			configPath = strings.TrimPrefix(arg, "--config=")
		default:
			return args[i:], false, nil
		}
	}
	return nil, false, nil
}

// joinArgs turns shell words back into one flag string. A single word is
// taken as typed, so a quoted flag string keeps its own quoting. With more
// words, blanks, quotes and backslashes are escaped so each word stays one
// token.
func joinArgs(args []string) string {
	if len(args) == 1 {
		return args[0]
	}
	var b strings.Builder
	for i, arg := range args {
		if i > 0 {
			b.WriteByte(' ')
		}
		for _, r := range arg {
			if unicode.IsSpace(r) || r == '"' || r == '\'' || r == '\\' {
				b.WriteByte('\\')
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}
