package flags

import (
	"strings"
	"unicode"
)

// Code classifies a failed tokenize/validate.
type Code string

const (
	CodeNone              Code = ""
	CodeTrailingEscape    Code = "trailing_escape"
	CodeUnterminatedQuote Code = "unterminated_quote"
	CodeForbiddenFlag     Code = "forbidden_flag"
)

// TokenizeResult is the outcome of Tokenize. Args is empty unless OK.
type TokenizeResult struct {
	OK   bool
	Args []string
	Code Code
}

type state int

const (
	stateNormal state = iota
	stateEscaped
	stateSingle
	stateDouble
)

type tokenizer struct {
	state state
	args  []string
	token strings.Builder
}

// Tokenize splits input shell-style without invoking a shell. A backslash
// outside quotes takes the next character literally; inside quotes only the
// matching quote character is special.
func Tokenize(input string) TokenizeResult {
	tk := &tokenizer{}
	for _, r := range input {
		switch tk.state {
		case stateNormal:
			tk.normal(r)
		case stateEscaped:
			tk.escaped(r)
		case stateSingle:
			tk.quoted(r, '\'')
		case stateDouble:
			tk.quoted(r, '"')
		}
	}

	switch tk.state {
	case stateEscaped:
		return TokenizeResult{Args: []string{}, Code: CodeTrailingEscape}
	case stateSingle, stateDouble:
		return TokenizeResult{Args: []string{}, Code: CodeUnterminatedQuote}
	}
	tk.flush()
	if tk.args == nil {
		tk.args = []string{}
	}
	return TokenizeResult{OK: true, Args: tk.args}
}

func (tk *tokenizer) normal(r rune) {
	switch {
	case r == '\\':
		tk.state = stateEscaped
	case r == '\'':
		tk.state = stateSingle
	case r == '"':
		tk.state = stateDouble
	case unicode.IsSpace(r):
		tk.flush()
	default:
		tk.token.WriteRune(r)
	}
}

func (tk *tokenizer) escaped(r rune) {
	tk.token.WriteRune(r)
	tk.state = stateNormal
}

func (tk *tokenizer) quoted(r, closing rune) {
	if r == closing {
		tk.state = stateNormal
		return
	}
	tk.token.WriteRune(r)
}

// flush ends the current token. Empty tokens are not emitted, so an empty
// quoted string adds nothing.
func (tk *tokenizer) flush() {
	if tk.token.Len() == 0 {
		return
	}
	tk.args = append(tk.args, tk.token.String())
	tk.token.Reset()
}
