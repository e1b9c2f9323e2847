// Package mitex converts LaTeX math and text into Typst source. It wires
// together the lexer (C2), parser (C4) and converter (C5) packages behind
// the two entry points spec.md §6 names.
package mitex

import (
	"github.com/texconv/mitex/convert"
	"github.com/texconv/mitex/parser"
	"github.com/texconv/mitex/spec"
)

// ConvertMath converts LaTeX math-mode input (the content of a formula,
// without surrounding $ delimiters) into Typst math source. A nil sp uses
// spec.Default().
func ConvertMath(input string, sp *spec.CommandSpec) (string, error) {
	return convertWith(input, sp, convert.ModeMath)
}

// ConvertText converts LaTeX running-text input into Typst markup source.
// A nil sp uses spec.Default().
func ConvertText(input string, sp *spec.CommandSpec) (string, error) {
	return convertWith(input, sp, convert.ModeText)
}

func convertWith(input string, sp *spec.CommandSpec, mode convert.Mode) (string, error) {
	s := spec.Default()
	if sp != nil {
		s = *sp
	}
	root := parser.Parse(input, s)
	c := convert.New(s, mode)
	return c.Convert(root)
}
