// Package macro implements C6, the optional macro pre-expander spec.md §9
// describes as a partial, optional layer ahead of the main lexer/parser/
// convert pipeline: it only handles \newcommand/\renewcommand definitions
// and their invocations, leaving \if-conditionals to the parser's existing
// block-comment handling.
package macro

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/texconv/mitex/lexer"
	"github.com/texconv/mitex/spec"
)

// maxExpansionDepth bounds recursive macro expansion so a self-referential
// definition (\newcommand{\x}{\x}) fails loudly instead of looping forever.
const maxExpansionDepth = 64

type definition struct {
	arity int
	body  []lexer.Token
}

// Expand scans input for \newcommand/\renewcommand definitions, strips
// them, and substitutes every invocation of a defined name with its body
// (recursively, with #1..#9 replaced by the matching argument). The result
// is a plain LaTeX string suitable for the normal lexer.New/parser.Parse
// pipeline — macro expansion happens entirely before tokenization resumes.
func Expand(input string, sp spec.CommandSpec) (string, error) {
	defs := map[string]definition{}
	kept, err := collectDefinitions(input, sp, defs)
	if err != nil {
		return "", err
	}
	if len(defs) == 0 {
		return joinTokens(kept), nil
	}
	return expandTokens(kept, defs, 0)
}

func collectDefinitions(input string, sp spec.CommandSpec, defs map[string]definition) ([]lexer.Token, error) {
	lx := lexer.New(input, sp)
	var kept []lexer.Token
	for {
		tok := lx.Pop()
		if tok.Kind == lexer.EOF {
			break
		}
		if tok.Kind == lexer.CommandName && tok.Cmd == lexer.Generic &&
			(tok.Name == "newcommand" || tok.Name == "renewcommand") {
			if err := parseDefinition(lx, defs); err != nil {
				return nil, err
			}
			continue
		}
		kept = append(kept, tok)
	}
	return kept, nil
}

func parseDefinition(lx *lexer.Lexer, defs map[string]definition) error {
	name, ok := readMacroName(lx)
	if !ok {
		return fmt.Errorf("macro: malformed \\newcommand: missing macro name")
	}

	arity := 0
	if tok := lx.Peek(); tok.Kind == lexer.LeftBrace && tok.Brace == lexer.Bracket {
		lx.Pop()
		var digits strings.Builder
		for {
			t := lx.Peek()
			if t.Kind == lexer.RightBrace && t.Brace == lexer.Bracket {
				lx.Pop()
				break
			}
			if t.Kind == lexer.EOF {
				return fmt.Errorf("macro: unterminated arity group for \\%s", name)
			}
			digits.WriteString(t.Text)
			lx.Pop()
		}
		n, err := strconv.Atoi(strings.TrimSpace(digits.String()))
		if err != nil {
			return fmt.Errorf("macro: bad arity for \\%s: %w", name, err)
		}
		arity = n
	}

	body, ok := readBalancedGroupFromLexer(lx)
	if !ok {
		return fmt.Errorf("macro: missing body for \\%s", name)
	}
	defs[name] = definition{arity: arity, body: body}
	return nil
}

func readMacroName(lx *lexer.Lexer) (string, bool) {
	tok := lx.Peek()
	if tok.Kind == lexer.LeftBrace && tok.Brace == lexer.Curly {
		lx.Pop()
		nameTok := lx.Pop()
		if nameTok.Kind != lexer.CommandName {
			return "", false
		}
		closeTok := lx.Pop()
		if closeTok.Kind != lexer.RightBrace || closeTok.Brace != lexer.Curly {
			return "", false
		}
		return nameTok.Name, true
	}
	if tok.Kind == lexer.CommandName {
		lx.Pop()
		return tok.Name, true
	}
	return "", false
}

func readBalancedGroupFromLexer(lx *lexer.Lexer) ([]lexer.Token, bool) {
	tok := lx.Peek()
	if tok.Kind != lexer.LeftBrace || tok.Brace != lexer.Curly {
		return nil, false
	}
	lx.Pop()
	depth := 1
	var body []lexer.Token
	for {
		t := lx.Peek()
		if t.Kind == lexer.EOF {
			return body, true
		}
		if t.Kind == lexer.LeftBrace && t.Brace == lexer.Curly {
			depth++
		}
		if t.Kind == lexer.RightBrace && t.Brace == lexer.Curly {
			depth--
			if depth == 0 {
				lx.Pop()
				return body, true
			}
		}
		body = append(body, lx.Pop())
	}
}

// readBalancedGroup mirrors readBalancedGroupFromLexer over an already
// materialized token slice, used during argument-reading in pass 2.
func readBalancedGroup(toks []lexer.Token, i int) (body []lexer.Token, next int, ok bool) {
	if i >= len(toks) || toks[i].Kind != lexer.LeftBrace || toks[i].Brace != lexer.Curly {
		return nil, i, false
	}
	depth := 1
	start := i + 1
	j := start
	for j < len(toks) {
		if toks[j].Kind == lexer.LeftBrace && toks[j].Brace == lexer.Curly {
			depth++
		}
		if toks[j].Kind == lexer.RightBrace && toks[j].Brace == lexer.Curly {
			depth--
			if depth == 0 {
				return toks[start:j], j + 1, true
			}
		}
		j++
	}
	return toks[start:], len(toks), true
}

func skipTrivia(toks []lexer.Token, i int) int {
	for i < len(toks) && toks[i].IsTrivia() {
		i++
	}
	return i
}

// readArgument reads one macro argument starting at i: a braced group if
// present, else a single following token (TeX's bare-token argument form).
func readArgument(toks []lexer.Token, i int) ([]lexer.Token, int, bool) {
	i = skipTrivia(toks, i)
	if body, next, ok := readBalancedGroup(toks, i); ok {
		return body, next, true
	}
	if i >= len(toks) {
		return nil, i, false
	}
	return toks[i : i+1], i + 1, true
}

func expandTokens(toks []lexer.Token, defs map[string]definition, depth int) (string, error) {
	if depth > maxExpansionDepth {
		return "", fmt.Errorf("macro: expansion depth exceeded %d", maxExpansionDepth)
	}
	var out strings.Builder
	i := 0
	for i < len(toks) {
		tok := toks[i]
		if tok.Kind == lexer.CommandName && tok.Cmd == lexer.Generic {
			if def, ok := defs[tok.Name]; ok {
				args := make([][]lexer.Token, def.arity)
				j := i + 1
				complete := true
				for k := 0; k < def.arity; k++ {
					arg, next, ok := readArgument(toks, j)
					if !ok {
						complete = false
						break
					}
					args[k] = arg
					j = next
				}
				if complete {
					substituted := substitutePlaceholders(def.body, args)
					expanded, err := expandTokens(substituted, defs, depth+1)
					if err != nil {
						return "", err
					}
					out.WriteString(expanded)
					i = j
					continue
				}
			}
		}
		out.WriteString(tok.Text)
		i++
	}
	return out.String(), nil
}

// substitutePlaceholders replaces #1..#9 in body with the matching argument
// token sequence. A `#` token is only ever followed by a Word token in
// practice (e.g. "#1+#1" lexes as Hash,Word("1+"),Hash,Word("1")), so the
// placeholder digit is the Word's leading byte and any trailing text in
// that Word survives as literal text after the substitution.
func substitutePlaceholders(body []lexer.Token, args [][]lexer.Token) []lexer.Token {
	var out []lexer.Token
	i := 0
	for i < len(body) {
		tok := body[i]
		if tok.Kind == lexer.Hash && i+1 < len(body) && body[i+1].Kind == lexer.Word && len(body[i+1].Text) > 0 {
			next := body[i+1]
			d := next.Text[0]
			if d >= '1' && d <= '9' {
				idx := int(d - '1')
				if idx < len(args) {
					out = append(out, args[idx]...)
				}
				if rest := next.Text[1:]; rest != "" {
					out = append(out, lexer.Token{Kind: lexer.Word, Text: rest})
				}
				i += 2
				continue
			}
		}
		out = append(out, tok)
		i++
	}
	return out
}

func joinTokens(toks []lexer.Token) string {
	var sb strings.Builder
	for _, t := range toks {
		sb.WriteString(t.Text)
	}
	return sb.String()
}
