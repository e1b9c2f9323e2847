// Package convert implements C5, the converter that walks a parser.Node
// tree and emits Typst source. It is grounded on spec.md §4.5's rule list,
// cross-checked rune-for-rune against the seven worked examples in §8.
package convert

import (
	"strings"

	"github.com/texconv/mitex/lexer"
	"github.com/texconv/mitex/parser"
	"github.com/texconv/mitex/spec"
)

// Mode is the ambient LaTeX typesetting mode: running text or a formula.
type Mode uint8

const (
	ModeMath Mode = iota
	ModeText
)

// Env is the converter's own notion of enclosing environment, distinct
// from spec.ContextFeature: it tracks the conversion-time behavior of
// `&`/`\\`/indentation rather than the spec's command-matching context.
type Env uint8

const (
	EnvNone Env = iota
	EnvMath
	EnvMatrix
	EnvCases
	EnvSubStack
	EnvMathCurlyGroup
	EnvItemize
	EnvEnumerate
)

// Converter holds the (mode, env) stack plus the indent/skip-space/pending-
// label state spec.md §3 describes, and walks a parsed tree into Typst
// source. The first error short-circuits the rest of the walk.
type Converter struct {
	sp  spec.CommandSpec
	out *strings.Builder

	modeStack []Mode
	envStack  []Env

	indent           int
	skipNextSpace    bool
	pendingLabel     string
	curlyEnvOverride *Env

	err error
}

// New returns a Converter starting in the given mode with no enclosing
// environment.
func New(sp spec.CommandSpec, mode Mode) *Converter {
	return &Converter{
		sp:        sp,
		out:       &strings.Builder{},
		modeStack: []Mode{mode},
		envStack:  []Env{EnvNone},
	}
}

// Convert walks root and returns the Typst source it emits, or the first
// error encountered.
func (c *Converter) Convert(root *parser.Node) (string, error) {
	if root != nil {
		c.convertChildren(root.Children)
	}
	c.flushPendingLabel()
	if c.err != nil {
		return "", c.err
	}
	return c.out.String(), nil
}

func (c *Converter) mode() Mode { return c.modeStack[len(c.modeStack)-1] }
func (c *Converter) env() Env   { return c.envStack[len(c.envStack)-1] }

func (c *Converter) enterMode(m Mode) { c.modeStack = append(c.modeStack, m) }
func (c *Converter) exitMode()        { c.modeStack = c.modeStack[:len(c.modeStack)-1] }
func (c *Converter) enterEnv(e Env)   { c.envStack = append(c.envStack, e) }
func (c *Converter) exitEnv()         { c.envStack = c.envStack[:len(c.envStack)-1] }

func (c *Converter) setErr(e *Error) {
	if c.err == nil {
		c.err = e
	}
}

func (c *Converter) emit(s string) {
	if c.err != nil {
		return
	}
	c.out.WriteString(s)
}

func (c *Converter) flushPendingLabel() {
	if c.pendingLabel == "" {
		return
	}
	label := c.pendingLabel
	c.pendingLabel = ""
	c.emit(label)
}

// convertChildren walks a flat child list in order. Most nodes store their
// content this way (Root, Text, Env bodies, LR bodies), so this is the
// workhorse every dispatch method bottoms out in.
func (c *Converter) convertChildren(children []parser.Element) {
	i := 0
	for i < len(children) && c.err == nil {
		i = c.convertElementAt(children, i)
	}
}

// convertElementAt converts children[i] and returns the index of the next
// unconsumed element. Almost everything consumes exactly one element, but
// a bare `_`/`^` with no preceding attachable base (AttachComponent never
// forms for those — the parser only wraps one when a valid base exists)
// consumes the following sibling as its script per spec.md §4.5.
func (c *Converter) convertElementAt(children []parser.Element, i int) int {
	el := children[i]
	if el.Node != nil {
		c.convertNode(el.Node)
		return i + 1
	}
	tok := *el.Token
	if c.mode() == ModeMath && (tok.Kind == lexer.Underscore || tok.Kind == lexer.Caret) {
		c.skipNextSpace = false
		op := "_"
		if tok.Kind == lexer.Caret {
			op = "^"
		}
		c.emit("zws")
		c.emit(op)
		c.emit("(")
		next := i + 1
		if next < len(children) {
			next = c.convertElementAt(children, next)
		}
		c.emit(")")
		return next
	}
	c.convertLeaf(tok)
	return i + 1
}

func (c *Converter) convertLeaf(tok lexer.Token) {
	if c.err != nil {
		return
	}
	if tok.Kind == lexer.Whitespace && c.skipNextSpace {
		c.skipNextSpace = false
		return
	}
	c.skipNextSpace = false
	switch tok.Kind {
	case lexer.Whitespace:
		c.emit(tok.Text)
	case lexer.LineBreak:
		c.emit(tok.Text)
		if c.indent > 0 {
			c.emit(strings.Repeat(" ", c.indent))
		}
		c.skipNextSpace = true
	case lexer.Word:
		c.convertWord(tok.Text)
	case lexer.Ampersand:
		c.convertAmpersand()
	case lexer.NewLine:
		c.convertRowBreak()
	case lexer.Tilde:
		if c.mode() == ModeMath {
			c.emit("space.nobreak")
		} else {
			c.emit(`\~`)
		}
	case lexer.Slash:
		c.emit(`\/`)
	case lexer.Ditto:
		c.emit(`\"`)
	case lexer.Semicolon:
		c.emit(`\;`)
	case lexer.Hash:
		c.emit(`\#`)
	case lexer.Asterisk:
		c.emit(`\*`)
	case lexer.AtSign:
		c.emit(`\@`)
	case lexer.Underscore:
		c.emit(`\_`)
	case lexer.Caret:
		c.emit(`\^`)
	default:
		c.emit(tok.Text)
	}
}

func (c *Converter) convertWord(text string) {
	if c.mode() != ModeMath {
		c.emit(text)
		return
	}
	for _, r := range text {
		c.emit(string(r))
		c.emit(" ")
	}
}

func (c *Converter) convertAmpersand() {
	if c.env() == EnvMatrix {
		c.emit("zws ,")
		return
	}
	c.emit("&")
}

func (c *Converter) convertRowBreak() {
	switch c.env() {
	case EnvMatrix:
		c.emit("zws ;")
	case EnvCases:
		c.emit(",")
	case EnvMathCurlyGroup:
		// suppressed
	default:
		c.emit(`\ `)
	}
}

func (c *Converter) convertNode(n *parser.Node) {
	if c.err != nil || n == nil {
		return
	}
	switch n.Kind {
	case parser.Root, parser.Text, parser.ArgumentClause, parser.Begin, parser.End:
		c.convertChildren(n.Children)
	case parser.Curly:
		c.convertCurly(n)
	case parser.Bracket, parser.Paren:
		c.convertChildren(n.Children)
	case parser.Formula:
		c.convertFormula(n)
	case parser.Cmd:
		c.convertCmd(n)
	case parser.Env:
		c.convertEnv(n)
	case parser.LR:
		c.convertLR(n)
	case parser.AttachComponent:
		c.convertAttach(n)
	case parser.BlockComment:
		// `\iffalse...\fi` is TeX-only conditional text; it never renders.
	case parser.ErrorNode:
		c.raiseErrorNode(n)
	default:
		c.convertChildren(n.Children)
	}
}

func (c *Converter) convertCurly(n *parser.Node) {
	env := EnvMathCurlyGroup
	if c.curlyEnvOverride != nil {
		env = *c.curlyEnvOverride
		c.curlyEnvOverride = nil
	}
	inner := stripBraces(n.Children)
	if c.mode() != ModeMath {
		c.convertChildren(inner)
		return
	}
	if len(inner) == 0 {
		c.emit("zws")
		return
	}
	c.enterEnv(env)
	c.convertChildren(inner)
	c.exitEnv()
}

func stripBraces(children []parser.Element) []parser.Element {
	start, end := 0, len(children)
	if start < end && children[start].Token != nil && children[start].Token.Kind == lexer.LeftBrace {
		start++
	}
	if end > start && children[end-1].Token != nil && children[end-1].Token.Kind == lexer.RightBrace {
		end--
	}
	return children[start:end]
}

type formulaKind uint8

const (
	fkNone formulaKind = iota
	fkInlineDollar
	fkDisplayDollar
	fkParenMath
	fkBracketMath
)

func classifyOpen(tok lexer.Token) formulaKind {
	switch {
	case tok.Kind == lexer.Dollar && tok.Text == "$$":
		return fkDisplayDollar
	case tok.Kind == lexer.Dollar:
		return fkInlineDollar
	case tok.Kind == lexer.CommandName && tok.Cmd == lexer.BeginMath && tok.Name == "[":
		return fkBracketMath
	case tok.Kind == lexer.CommandName && tok.Cmd == lexer.BeginMath:
		return fkParenMath
	default:
		return fkNone
	}
}

func classifyClose(tok lexer.Token) formulaKind {
	switch {
	case tok.Kind == lexer.Dollar && tok.Text == "$$":
		return fkDisplayDollar
	case tok.Kind == lexer.Dollar:
		return fkInlineDollar
	case tok.Kind == lexer.CommandName && tok.Cmd == lexer.EndMath && tok.Name == "]":
		return fkBracketMath
	case tok.Kind == lexer.CommandName && tok.Cmd == lexer.EndMath:
		return fkParenMath
	default:
		return fkNone
	}
}

// convertFormula handles a `$...$`/`$$...$$`/`\(...\)`/`\[...\]` node. In
// Text mode (running text, or text nested inside \text{}) it wraps the body
// as an inline or display Typst equation; in Math mode it converts the body
// in place. mitex.ConvertMath takes formula content without delimiters, so
// its input needs no surrounding formula node.
func (c *Converter) convertFormula(n *parser.Node) {
	if len(n.Children) == 0 {
		return
	}
	openTok := n.Children[0].Token
	if openTok == nil {
		return
	}
	openKind := classifyOpen(*openTok)
	bodyEnd := len(n.Children)
	closeKind := fkNone
	if last := n.Children[len(n.Children)-1]; last.Token != nil {
		if ck := classifyClose(*last.Token); ck != fkNone {
			closeKind = ck
			bodyEnd--
		}
	}
	if openKind == fkNone || closeKind == fkNone || openKind != closeKind {
		c.setErr(errInvalidFormula)
		return
	}
	body := n.Children[1:bodyEnd]
	display := openKind == fkDisplayDollar || openKind == fkBracketMath

	if c.mode() != ModeText {
		c.convertChildren(body)
		return
	}
	if display {
		c.emit("$ ")
	} else {
		c.emit("#math.equation(block: false, $")
	}
	c.enterMode(ModeMath)
	c.convertChildren(body)
	c.exitMode()
	if display {
		c.emit(" $")
	} else {
		c.emit("$);")
	}
}

func (c *Converter) convertAttach(n *parser.Node) {
	if len(n.Children) == 0 {
		return
	}
	base := n.Children[0]
	if base.Node == nil || base.Node.Kind != parser.ArgumentClause {
		return
	}
	c.convertChildren(base.Node.Children)
	if len(n.Children) < 2 || n.Children[1].Token == nil {
		return
	}
	op := *n.Children[1].Token
	switch op.Kind {
	case lexer.Apostrophe:
		c.emit("'")
	case lexer.Underscore, lexer.Caret:
		sym := "_"
		if op.Kind == lexer.Caret {
			sym = "^"
		}
		c.emit(sym)
		c.emit("(")
		c.convertChildren(n.Children[2:])
		c.emit(")")
	}
}

func (c *Converter) convertLR(n *parser.Node) {
	i := 0
	for i < len(n.Children) && c.err == nil {
		el := n.Children[i]
		if el.Node != nil && el.Node.Kind == parser.LRClause {
			c.convertLRClause(el.Node)
			i++
			continue
		}
		i = c.convertElementAt(n.Children, i)
	}
}

func (c *Converter) convertLRClause(n *parser.Node) {
	if len(n.Children) == 0 || n.Children[0].Token == nil {
		return
	}
	first := *n.Children[0].Token
	delim := delimiterText(n.Children[1:])
	if first.Cmd == lexer.LeftDelim {
		c.emit("lr(")
		c.emit(delim)
		c.emit(" ")
		return
	}
	c.emit(delim)
	c.emit(" ")
	c.emit(")")
}

func delimiterText(rest []parser.Element) string {
	if len(rest) == 0 {
		return ""
	}
	el := rest[0]
	if el.Token == nil {
		return el.Text()
	}
	if el.Token.Kind == lexer.Word && el.Token.Text == "." {
		return ""
	}
	return el.Token.Text
}

func (c *Converter) raiseErrorNode(n *parser.Node) {
	if len(n.Children) == 0 {
		c.setErr(unexpectedErr(""))
		return
	}
	tok := n.Children[0].Token
	if tok == nil {
		c.setErr(unexpectedErr(n.Text()))
		return
	}
	switch {
	case tok.Kind == lexer.CommandName && tok.Cmd == lexer.EndEnv:
		c.setErr(errClausesOutsideEnvironment)
	case tok.Kind == lexer.CommandName && tok.Cmd == lexer.RightDelim:
		c.setErr(errCommandNameOutsideCommand)
	default:
		c.setErr(unexpectedErr(n.Text()))
	}
}
