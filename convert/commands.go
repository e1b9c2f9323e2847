package convert

import (
	"strings"

	"github.com/texconv/mitex/parser"
	"github.com/texconv/mitex/spec"
)

// convertCmd dispatches a Cmd node regardless of the shape (Right/Left1/
// InfixGreedy) that produced it: per spec.md §4.5, every Cmd node is
// rendered from its CommandNameClause plus whatever ArgumentClause
// children it has, in tree order — the shape only ever affected how the
// parser built the tree, not how the converter reads it back. Trivia tokens
// trailing the last argument are emitted after the rendered command.
func (c *Converter) convertCmd(n *parser.Node) {
	if c.err != nil {
		return
	}
	nameNode := findChildKind(n.Children, parser.CommandNameClause)
	if nameNode == nil {
		return
	}
	nameTok, ok := firstCommandToken(nameNode)
	if !ok {
		return
	}
	name := nameTok.Name
	args := childArgumentClauses(n.Children)

	// Trivia the parser consumed after the last argument stays part of the
	// output, emitted after the rendered command.
	defer func() {
		tail := len(n.Children)
		for tail > 0 && n.Children[tail-1].Token != nil && n.Children[tail-1].Token.IsTrivia() {
			tail--
		}
		for _, el := range n.Children[tail:] {
			c.convertLeaf(*el.Token)
		}
	}()

	switch name {
	case "item":
		c.convertItem()
		return
	case "label":
		c.convertLabel(args)
		return
	}

	item, ok := c.sp.GetCmd(name)
	if !ok {
		c.setErr(c.unknownCommand(name))
		return
	}

	alias := item.Alias
	if alias == "" {
		alias = name
	}

	if len(args) == 0 {
		c.renderSymbol(alias)
		return
	}

	if c.mode() == ModeText {
		switch name {
		case "textbf":
			c.renderBracket("#strong", args, ModeText)
			return
		case "textit":
			c.renderBracket("#emph", args, ModeText)
			return
		}
	}

	if name == "substack" {
		c.renderParenWithEnv(alias, args, EnvSubStack)
		return
	}

	if strings.HasPrefix(alias, "#") {
		c.renderBracket(alias, args, ModeText)
		return
	}

	if item.Args.Kind == spec.ShapeRight && item.Args.Pattern.Kind == spec.PatternGreedy {
		c.renderParen(alias, args)
		return
	}

	if c.mode() == ModeText {
		c.renderBracket(alias, args, c.mode())
		return
	}
	c.renderParen(alias, args)
}

func (c *Converter) renderSymbol(alias string) {
	c.emit(alias)
	if c.mode() == ModeMath {
		c.emit(" ")
	}
}

func (c *Converter) renderParen(alias string, args []*parser.Node) {
	c.emit(alias)
	c.emit("(")
	for i, a := range args {
		if i > 0 {
			c.emit(",")
		}
		c.convertChildren(a.Children)
	}
	c.emit(")")
}

func (c *Converter) renderParenWithEnv(alias string, args []*parser.Node, env Env) {
	c.emit(alias)
	c.emit("(")
	prev := c.curlyEnvOverride
	c.curlyEnvOverride = &env
	for i, a := range args {
		if i > 0 {
			c.emit(",")
		}
		c.convertChildren(a.Children)
	}
	c.curlyEnvOverride = prev
	c.emit(")")
}

// renderBracket renders `alias[arg1];[arg2];…`, forcing argMode for each
// argument's own conversion — used both for ordinary text-mode commands and
// for `#`-prefixed aliases that force text mode regardless of ambient mode
// (\text{...} inside a formula, for instance).
func (c *Converter) renderBracket(alias string, args []*parser.Node, argMode Mode) {
	c.emit(alias)
	for _, a := range args {
		c.emit("[")
		if c.mode() != argMode {
			c.enterMode(argMode)
			c.convertChildren(a.Children)
			c.exitMode()
		} else {
			c.convertChildren(a.Children)
		}
		c.emit("];")
	}
}

func (c *Converter) convertItem() {
	switch c.env() {
	case EnvItemize:
		c.emit("- ")
	case EnvEnumerate:
		c.emit("+ ")
	default:
		c.setErr(errItemOutsideList)
	}
}

func (c *Converter) convertLabel(args []*parser.Node) {
	if len(args) == 0 {
		return
	}
	name := rawArgText(args[0])
	label := "<" + name + ">"
	if isNonMathEnv(c.env()) {
		c.emit(label)
		return
	}
	c.pendingLabel = label
}

func isNonMathEnv(e Env) bool {
	switch e {
	case EnvNone, EnvItemize, EnvEnumerate:
		return true
	default:
		return false
	}
}

func (c *Converter) unknownCommand(name string) *Error {
	e := &Error{Kind: KindUnknownCommand, Name: name}
	if s, ok := c.sp.Suggest(name); ok {
		e.Suggestion = s
	}
	return e
}

func (c *Converter) unknownEnvironment(name string) *Error {
	e := &Error{Kind: KindUnknownEnvironment, Name: name}
	if s, ok := c.sp.Suggest(name); ok {
		e.Suggestion = s
	}
	return e
}
