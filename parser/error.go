package parser

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"

	"github.com/smuchow1962/conversion-table-manager/errors"
)

// ErrorContext indicates the environment where parser errors will be displayed
type ErrorContext string

const (
	// ErrorContextTerminal renders with ANSI colors
	ErrorContextTerminal ErrorContext = "terminal"
	// ErrorContextPlain renders without ANSI codes (HTTP responses, logs)
	ErrorContextPlain ErrorContext = "plain"
)

// ErrorKind records which check rejected the input. It only feeds hints;
// the message is the same for every kind.
type ErrorKind string

const (
	ErrorKindSyntax ErrorKind = "syntax" // pattern did not match
	ErrorKindMinor  ErrorKind = "minor"  // minor value on a unit without a minor unit
	ErrorKindAlias  ErrorKind = "alias"  // matched alias whose target is missing
)

// ParseError is the error returned by Parse. Its message is always the
// message of ErrNoMatch, and it unwraps to ErrNoMatch.
type ParseError struct {
	Err         error     // Underlying sentinel
	Kind        ErrorKind // Which check failed
	Message     string    // Human-readable message
	Input       string    // Input as given by the caller
	Table       string    // Table name, may be empty
	Suggestions []string  // Possible fixes
}

// NewParseError creates a ParseError of the given kind for input.
func NewParseError(kind ErrorKind, input string) *ParseError {
	return &ParseError{
		Err:     errors.ErrNoMatch,
		Kind:    kind,
		Message: errors.ErrNoMatch.Error(),
		Input:   input,
	}
}

// WithTable records the table the input was parsed against
func (e *ParseError) WithTable(name string) *ParseError {
	e.Table = name
	return e
}

// WithSuggestion adds a suggestion for fixing the error
func (e *ParseError) WithSuggestion(suggestion string) *ParseError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// Error implements error interface
func (e *ParseError) Error() string {
	return e.Message
}

// Unwrap for errors.Is/As compatibility
func (e *ParseError) Unwrap() error {
	return e.Err
}

// FormatError generates context-appropriate error message
func (e *ParseError) FormatError(ctx ErrorContext) string {
	if ctx == ErrorContextPlain {
		return e.formatPlainError()
	}
	return e.formatTerminalError()
}

// formatPlainError creates concise error for HTTP responses and logs
func (e *ParseError) formatPlainError() string {
	msg := fmt.Sprintf("%s: %q", e.Message, e.Input)
	if e.Table != "" {
		msg += fmt.Sprintf(" (table %s)", e.Table)
	}
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(". Suggestions: %s", strings.Join(e.Suggestions, ", "))
	}
	return msg
}

// formatTerminalError creates rich colored error for terminal
func (e *ParseError) formatTerminalError() string {
	var b strings.Builder
	b.WriteString(pterm.Red(e.Message))

	b.WriteString(fmt.Sprintf("\n\n%s", pterm.LightCyan("Context:")))
	b.WriteString(fmt.Sprintf("\n  %s %q", pterm.Yellow("Input:"), e.Input))
	if e.Table != "" {
		b.WriteString(fmt.Sprintf("\n  %s %s", pterm.Yellow("Table:"), e.Table))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString(fmt.Sprintf("\n\n%s", pterm.Green("Suggestions:")))
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	return b.String()
}

// Format renders any error for ctx. ParseErrors get their rich form,
// other errors their message with hints appended.
func Format(err error, ctx ErrorContext) string {
	if err == nil {
		return ""
	}
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.FormatError(ctx)
	}
	msg := err.Error()
	if hints := errors.FlattenHints(err); hints != "" {
		if ctx == ErrorContextTerminal {
			return fmt.Sprintf("%s\n%s %s", pterm.Red(msg), pterm.Green("Hint:"), hints)
		}
		return msg + " (hint: " + hints + ")"
	}
	if ctx == ErrorContextTerminal {
		return pterm.Red(msg)
	}
	return msg
}
