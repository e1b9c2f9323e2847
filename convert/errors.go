package convert

import "fmt"

// Kind discriminates the flat error kinds spec.md §7 names for the
// converter: unknown names, structural tokens reaching the converter
// outside the scope that would normally consume them, and invalid
// formulas/lists.
type Kind uint8

const (
	KindUnknownCommand Kind = iota
	KindUnknownEnvironment
	KindCommandNameOutsideCommand
	KindClausesOutsideEnvironment
	KindUnexpected
	KindInvalidFormula
	KindItemOutsideList
)

// Error is the converter's single error type. Name and Suggestion are only
// meaningful for the two unknown-name kinds; Text only for KindUnexpected.
type Error struct {
	Kind       Kind
	Name       string
	Text       string
	Suggestion string
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindUnknownCommand:
		return withSuggestion("unknown command: \\"+e.Name, e.Suggestion)
	case KindUnknownEnvironment:
		return withSuggestion("unknown environment: \\"+e.Name, e.Suggestion)
	case KindCommandNameOutsideCommand:
		return "command name outside of command"
	case KindClausesOutsideEnvironment:
		return "clauses outside of environment"
	case KindUnexpected:
		return fmt.Sprintf("error unexpected: %q", e.Text)
	case KindInvalidFormula:
		return "formula is not valid"
	case KindItemOutsideList:
		return "item command outside of itemize or enumerate"
	default:
		return "convert: unknown error"
	}
}

func withSuggestion(msg, suggestion string) string {
	if suggestion == "" {
		return msg
	}
	return msg + " (did you mean \\" + suggestion + "?)"
}

// Is supports errors.Is by comparing Kind alone, so callers can match
// convert.Error{Kind: convert.KindInvalidFormula} without caring about the
// offending name or text.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

var (
	errCommandNameOutsideCommand = &Error{Kind: KindCommandNameOutsideCommand}
	errClausesOutsideEnvironment = &Error{Kind: KindClausesOutsideEnvironment}
	errInvalidFormula            = &Error{Kind: KindInvalidFormula}
	errItemOutsideList           = &Error{Kind: KindItemOutsideList}
)

func unexpectedErr(text string) *Error {
	return &Error{Kind: KindUnexpected, Text: text}
}
