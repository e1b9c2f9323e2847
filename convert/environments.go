package convert

import (
	"strconv"

	"github.com/texconv/mitex/parser"
	"github.com/texconv/mitex/spec"
)

// convertEnv dispatches an Env node. Itemize/Enumerate get their own
// bullet-translating walk; everything else renders as `name(argN: …, body)`
// per spec.md §4.5, switching into Math mode (and pushing the matching Env
// state) when a math-like environment is entered from Text mode.
func (c *Converter) convertEnv(n *parser.Node) {
	if c.err != nil || len(n.Children) == 0 {
		return
	}
	beginEl := n.Children[0]
	if beginEl.Node == nil || beginEl.Node.Kind != parser.Begin {
		return
	}
	beginTok, ok := firstCommandToken(beginEl.Node)
	if !ok {
		return
	}
	envName := beginTok.EnvName

	item, ok := c.sp.GetEnv(envName)
	if !ok {
		c.setErr(c.unknownEnvironment(envName))
		return
	}

	envArgs, body := splitEnvChildren(n.Children)

	switch item.Context {
	case spec.FeatureItemize:
		c.convertListEnv(body, EnvItemize)
	case spec.FeatureEnumerate:
		c.convertListEnv(body, EnvEnumerate)
	default:
		c.convertGeneralEnv(envName, item, envArgs, body)
	}
}

func (c *Converter) convertListEnv(body []parser.Element, env Env) {
	c.enterEnv(env)
	c.indent += 2
	c.convertChildren(body)
	c.indent -= 2
	c.exitEnv()
	c.flushPendingLabel()
}

func (c *Converter) convertGeneralEnv(name string, item spec.EnvShape, envArgs []*parser.Node, body []parser.Element) {
	alias := item.Alias
	if alias == "" {
		alias = name
	}

	var bodyEnv Env
	mathLike := true
	switch item.Context {
	case spec.FeatureMatrix:
		bodyEnv = EnvMatrix
	case spec.FeatureCases:
		bodyEnv = EnvCases
	case spec.FeatureMath:
		bodyEnv = EnvMath
	default:
		mathLike = false
	}

	wrapDollar := mathLike && c.mode() == ModeText
	if wrapDollar {
		c.emit("$ ")
		c.enterMode(ModeMath)
	}

	c.emit(alias)
	c.emit("(")
	for i, a := range envArgs {
		c.emit("arg" + strconv.Itoa(i) + ": ")
		c.convertChildren(a.Children)
		c.emit(",")
	}

	if mathLike {
		c.enterEnv(bodyEnv)
		c.convertChildren(body)
		c.exitEnv()
	} else {
		c.convertChildren(body)
	}
	c.emit(")")

	if wrapDollar {
		c.exitMode()
		c.emit(" $")
	}
	// A label deferred inside a math-like environment is emitted once the
	// enclosing context is no longer math-like.
	if isNonMathEnv(c.env()) {
		c.flushPendingLabel()
	}
}
