// Package flags turns free-text scrcpy flags typed by the user into an
// argument list, refusing anything that would change which device or
// transport a session uses. Every path that accepts free-text flags must go
// through Validate.
package flags

import (
	"fmt"
	"strings"
)

// MatchKind selects how a Rule pattern is compared with an argument.
type MatchKind int

const (
	// MatchExact: arg == pattern.
	MatchExact MatchKind = iota
	// MatchAttached: pattern followed by at least one more character (-sSERIAL).
	MatchAttached
	// MatchPrefix: pattern followed by anything, including nothing.
	MatchPrefix
	// MatchOption: pattern alone or pattern=value.
	MatchOption
	// MatchAbbrev: a shorter long option, with or without =value, that
	// getopt_long would expand to pattern. Prefixes shared with another
	// guarded option are ambiguous to scrcpy and are left alone.
	MatchAbbrev
)

// Rule is one entry of the deny list.
type Rule struct {
	Pattern string
	Match   MatchKind
}

// Matches reports whether arg is caught by r.
func (r Rule) Matches(arg string) bool {
	switch r.Match {
	case MatchExact:
		return arg == r.Pattern
	case MatchAttached:
		return len(arg) > len(r.Pattern) && strings.HasPrefix(arg, r.Pattern)
	case MatchPrefix:
		return strings.HasPrefix(arg, r.Pattern)
	case MatchOption:
		return arg == r.Pattern || strings.HasPrefix(arg, r.Pattern+"=")
	case MatchAbbrev:
		name, _, _ := strings.Cut(arg, "=")
		if len(name) <= len("--") || len(name) >= len(r.Pattern) || !strings.HasPrefix(r.Pattern, name) {
			return false
		}
		return abbrevTargets(name) == 1
	default:
		return false
	}
}

// ForbiddenRules lists, in priority order, every flag able to retarget the
// device or change the transport.
var ForbiddenRules = []Rule{
	{Pattern: "-s", Match: MatchExact},
	{Pattern: "-s", Match: MatchAttached},
	{Pattern: "--serial", Match: MatchExact},
	{Pattern: "--serial=", Match: MatchPrefix},
	{Pattern: "-d", Match: MatchExact},
	{Pattern: "-e", Match: MatchExact},
	{Pattern: "--select-usb", Match: MatchExact},
	{Pattern: "--select-tcpip", Match: MatchExact},
	{Pattern: "--tcpip", Match: MatchOption},
	{Pattern: "--tunnel-host", Match: MatchOption},
	{Pattern: "--tunnel-port", Match: MatchOption},
	{Pattern: "--serial", Match: MatchAbbrev},
	{Pattern: "--select-usb", Match: MatchAbbrev},
	{Pattern: "--select-tcpip", Match: MatchAbbrev},
	{Pattern: "--tcpip", Match: MatchAbbrev},
	{Pattern: "--tunnel-host", Match: MatchAbbrev},
	{Pattern: "--tunnel-port", Match: MatchAbbrev},
}

// abbrevTargets counts the guarded long options that start with name.
func abbrevTargets(name string) int {
	n := 0
	for _, rule := range ForbiddenRules {
		if rule.Match == MatchAbbrev && strings.HasPrefix(rule.Pattern, name) {
			n++
		}
	}
	return n
}

// DetectForbidden returns the first argument, left to right, caught by
// ForbiddenRules, or "".
func DetectForbidden(args []string) string {
	for _, arg := range args {
		for _, rule := range ForbiddenRules {
			if rule.Matches(arg) {
				return arg
			}
		}
	}
	return ""
}

// Sanitize collapses runs of CR/LF/TAB into one space and strips the other
// ASCII control characters.
func Sanitize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	inBreak := false
	for _, r := range raw {
		if r == '\r' || r == '\n' || r == '\t' {
			if !inBreak {
				b.WriteByte(' ')
				inBreak = true
			}
			continue
		}
		inBreak = false
		if isStrippedControl(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isStrippedControl(r rune) bool {
	switch {
	case r <= 0x08:
		return true
	case r == 0x0B, r == 0x0C:
		return true
	case r >= 0x0E && r <= 0x1F:
		return true
	case r == 0x7F:
		return true
	}
	return false
}

// Result is the outcome of Validate. Sanitized is always populated; Args
// only when OK.
type Result struct {
	OK            bool
	Args          []string
	Sanitized     string
	Code          Code
	ForbiddenFlag string
}

// Validate sanitizes, tokenizes and policy-checks raw flag input.
func Validate(raw string) Result {
	sanitized := Sanitize(raw)
	parsed := Tokenize(sanitized)
	if !parsed.OK {
		return Result{Args: []string{}, Sanitized: sanitized, Code: parsed.Code}
	}
	if forbidden := DetectForbidden(parsed.Args); forbidden != "" {
		return Result{
			Args:          []string{},
			Sanitized:     sanitized,
			Code:          CodeForbiddenFlag,
			ForbiddenFlag: forbidden,
		}
	}
	return Result{OK: true, Args: parsed.Args, Sanitized: sanitized}
}

// ValidationError carries a failed Result as an error.
type ValidationError struct {
	Code          Code
	ForbiddenFlag string
}

func (e *ValidationError) Error() string {
	switch e.Code {
	case CodeForbiddenFlag:
		return fmt.Sprintf("flag %q selects the device or transport and is not allowed", e.ForbiddenFlag)
	case CodeTrailingEscape:
		return "flags end with a dangling backslash"
	case CodeUnterminatedQuote:
		return "flags contain an unterminated quote"
	default:
		return fmt.Sprintf("invalid flags (%s)", e.Code)
	}
}

// Err returns nil for an accepted result and a *ValidationError otherwise.
func (r Result) Err() error {
	if r.OK {
		return nil
	}
	return &ValidationError{Code: r.Code, ForbiddenFlag: r.ForbiddenFlag}
}
