package parser

import (
	"unicode/utf8"

	"github.com/texconv/mitex/argmatch"
	"github.com/texconv/mitex/lexer"
	"github.com/texconv/mitex/spec"
)

// scope names the kind of group the parser is currently inside; it decides
// which tokens stop the current item list (spec's "Scope stack" table).
type scope uint8

const (
	scopeRoot scope = iota
	scopeFormula
	scopeEnvironment
	scopeLR
	scopeCurlyItem
	scopeBracketItem
	scopeParenItem
)

// attachState remembers the checkpoint of the most recently parsed
// attachable item in the current item list, for Left1 commands and
// subscript/superscript/prime attachment.
type attachState struct {
	cp    Checkpoint
	valid bool
}

// Parser drives a recursive-descent walk over a lexer.Lexer's token stream,
// building a lossless syntax tree via Builder. A command whose shape needs
// the preceding or surrounding items (Left1, InfixGreedy) rewrites already-
// emitted tree structure retroactively through Builder.StartNodeAt rather
// than needing lookahead or backtracking.
type Parser struct {
	lex      *lexer.Lexer
	spec     spec.CommandSpec
	b        *Builder
	envDepth int
}

// Parse tokenizes and parses input against sp, returning the root node of
// the resulting syntax tree. It never fails: malformed input still
// produces a well-formed tree containing ErrorNode leaves.
func Parse(input string, sp spec.CommandSpec) *Node {
	p := &Parser{lex: lexer.New(input, sp), spec: sp, b: NewBuilder()}
	p.b.Start(Root)
	p.parseItemList(scopeRoot)
	p.b.FinishNode()
	return p.b.Finish()
}

func isEndEnvTok(tok lexer.Token) bool {
	return tok.Kind == lexer.CommandName && tok.Cmd == lexer.EndEnv
}

func isRightDelimTok(tok lexer.Token) bool {
	return tok.Kind == lexer.CommandName && tok.Cmd == lexer.RightDelim
}

func isCurlyClose(tok lexer.Token) bool {
	return tok.Kind == lexer.RightBrace && tok.Brace == lexer.Curly
}

// isStop reports whether tok terminates the current scope's item list
// (spec's "Scope stack" stop-token table).
func (p *Parser) isStop(tok lexer.Token, sc scope) bool {
	switch sc {
	case scopeRoot:
		return false
	case scopeFormula:
		return tok.Kind == lexer.Dollar ||
			(tok.Kind == lexer.CommandName && tok.Cmd == lexer.EndMath) ||
			isCurlyClose(tok) || isEndEnvTok(tok) || isRightDelimTok(tok)
	case scopeEnvironment:
		return isCurlyClose(tok) || isEndEnvTok(tok)
	case scopeCurlyItem:
		return isCurlyClose(tok)
	case scopeBracketItem:
		return isCurlyClose(tok) ||
			(tok.Kind == lexer.RightBrace && tok.Brace == lexer.Bracket) ||
			isEndEnvTok(tok) || isRightDelimTok(tok)
	case scopeParenItem:
		return isCurlyClose(tok) ||
			(tok.Kind == lexer.RightBrace && tok.Brace == lexer.Paren) ||
			isEndEnvTok(tok) || isRightDelimTok(tok)
	case scopeLR:
		return isCurlyClose(tok) || isEndEnvTok(tok) || isRightDelimTok(tok)
	default:
		return false
	}
}

// runItemList parses items into whatever node is currently open, stopping
// at sc's stop tokens or (if extraStop is non-nil) whenever extraStop
// additionally says so. It tracks the list-start and last-attachable
// checkpoints that Left1, InfixGreedy and attachment parsing need.
func (p *Parser) runItemList(sc scope, extraStop func(lexer.Token) bool) {
	listStart := p.b.Checkpoint()
	last := attachState{}
	for {
		tok := p.lex.Peek()
		if tok.Kind == lexer.EOF {
			return
		}
		if p.isStop(tok, sc) {
			return
		}
		if extraStop != nil && extraStop(tok) {
			return
		}
		itemCp := p.b.Checkpoint()
		// Attachments and Left1/InfixGreedy commands wrap already-emitted
		// items retroactively, so the node they produce starts at the wrapped
		// item's checkpoint (or the list start), not at itemCp.
		isScript := tok.Kind == lexer.Underscore || tok.Kind == lexer.Caret || tok.Kind == lexer.Apostrophe
		item, known := p.spec.Get(tok.Name)
		isCmd := known && tok.Kind == lexer.CommandName && tok.Cmd == lexer.Generic && item.Kind == spec.ItemCommand
		if last.valid && (isScript || (isCmd && item.Cmd.Args.Kind == spec.ShapeLeft1)) {
			itemCp = last.cp
		} else if isCmd && item.Cmd.Args.Kind == spec.ShapeInfixGreedy {
			itemCp = listStart
		}
		if p.parseItem(sc, listStart, &last) {
			last = attachState{cp: itemCp, valid: true}
		}
	}
}

func (p *Parser) parseItemList(sc scope) {
	p.runItemList(sc, nil)
}

// scanGreedyArgumentBody is the item list an InfixGreedy or Right(Greedy)
// argument scans: ordinary items, except & and \\ end the argument early
// when inside an environment so a greedy command never swallows a row or
// column separator meant for the enclosing matrix.
func (p *Parser) scanGreedyArgumentBody(sc scope) {
	p.runItemList(sc, func(tok lexer.Token) bool {
		if p.envDepth == 0 {
			return false
		}
		return tok.Kind == lexer.Ampersand || tok.Kind == lexer.NewLine
	})
}

// parseItem dispatches on the next token's kind, per spec's "Item parsers
// by dispatched token" table. It returns whether the parsed item is
// attachable, i.e. eligible as the base of a following Left1 command or
// subscript/superscript/prime.
func (p *Parser) parseItem(sc scope, listStart Checkpoint, last *attachState) bool {
	tok := p.lex.Peek()

	switch tok.Kind {
	case lexer.Word, lexer.Comma:
		return p.parseTextRun()

	case lexer.LeftBrace:
		switch tok.Brace {
		case lexer.Curly:
			return p.parseGroup(lexer.Curly, scopeCurlyItem)
		case lexer.Bracket:
			return p.parseGroup(lexer.Bracket, scopeBracketItem)
		default:
			return p.parseGroup(lexer.Paren, scopeParenItem)
		}

	case lexer.RightBrace:
		p.b.Start(ErrorNode)
		p.b.PushToken(p.lex.Pop())
		p.b.FinishNode()
		return false

	case lexer.Dollar:
		return p.parseFormula()

	case lexer.Underscore, lexer.Caret:
		return p.parseAttachment(true, last, sc)

	case lexer.Apostrophe:
		return p.parseAttachment(false, last, sc)

	case lexer.CommandName:
		switch tok.Cmd {
		case lexer.Generic:
			return p.parseCommand(sc, listStart, last)
		case lexer.BeginEnv:
			return p.parseEnvironment()
		case lexer.BeginMath:
			return p.parseFormula()
		case lexer.If:
			p.parseBlockComment()
			return false
		case lexer.LeftDelim:
			return p.parseLeftRight(sc)
		case lexer.EndEnv, lexer.RightDelim, lexer.ErrorBeginEnv, lexer.ErrorEndEnv, lexer.EndMath:
			p.b.Start(ErrorNode)
			p.b.PushToken(p.lex.Pop())
			p.b.FinishNode()
			return false
		default: // Else, EndIf reaching here means an unmatched \else/\fi.
			p.b.PushToken(p.lex.Pop())
			return false
		}

	default: // Ampersand, NewLine, trivia, and otherwise-undispatched punctuation.
		p.b.PushToken(p.lex.Pop())
		return false
	}
}

// parseTextRun collects a contiguous run of words, commas and whitespace
// into one Text node.
func (p *Parser) parseTextRun() bool {
	p.b.Start(Text)
	for {
		tok := p.lex.Peek()
		switch tok.Kind {
		case lexer.Word, lexer.Comma, lexer.Whitespace, lexer.LineBreak:
			p.b.PushToken(p.lex.Pop())
		default:
			p.b.FinishNode()
			return true
		}
	}
}

func groupNodeKind(brace lexer.BraceKind) NodeKind {
	switch brace {
	case lexer.Bracket:
		return Bracket
	case lexer.Paren:
		return Paren
	default:
		return Curly
	}
}

// parseGroup consumes a brace pair (already peeked as the next token) and
// the items inside it, leaving the node open-at-end if the closer is
// missing.
func (p *Parser) parseGroup(brace lexer.BraceKind, inner scope) bool {
	p.b.Start(groupNodeKind(brace))
	p.b.PushToken(p.lex.Pop())
	p.parseItemList(inner)
	if tok := p.lex.Peek(); tok.Kind == lexer.RightBrace && tok.Brace == brace {
		p.b.PushToken(p.lex.Pop())
	}
	p.b.FinishNode()
	return true
}

// parseFormula parses a $...$/$$...$$ or \(...\)/\[...\] group, closing on
// whichever of Dollar or EndMath is encountered next.
func (p *Parser) parseFormula() bool {
	p.b.Start(Formula)
	p.b.PushToken(p.lex.Pop())
	p.parseItemList(scopeFormula)
	if tok := p.lex.Peek(); tok.Kind == lexer.Dollar ||
		(tok.Kind == lexer.CommandName && tok.Cmd == lexer.EndMath) {
		p.b.PushToken(p.lex.Pop())
	}
	p.b.FinishNode()
	return false
}

// parseBlockComment consumes a \iffalse...\fi run (and its nested
// \if.../\fi pairs) as opaque leaf tokens: a block comment's content is
// never interpreted, only reproduced.
func (p *Parser) parseBlockComment() {
	p.b.Start(BlockComment)
	p.b.PushToken(p.lex.Pop())
	depth := 1
	for depth > 0 {
		tok := p.lex.Peek()
		if tok.Kind == lexer.EOF {
			break
		}
		switch {
		case tok.Kind == lexer.CommandName && tok.Cmd == lexer.If:
			depth++
		case tok.Kind == lexer.CommandName && tok.Cmd == lexer.EndIf:
			depth--
		}
		p.b.PushToken(p.lex.Pop())
	}
	p.b.FinishNode()
}

// popSingleRune splits tok, a Word token, into its first rune (pushed as a
// leaf) and, if any, the remaining text (pushed back onto the lexer so the
// next Peek/Pop sees it). It is how the parser honors the "single-character
// preference" for argument terms and attachment scripts without the lexer
// needing to know about argument-scanning state.
func (p *Parser) popSingleRune(tok lexer.Token) {
	_, size := utf8.DecodeRuneInString(tok.Text)
	p.b.PushToken(lexer.Token{Kind: lexer.Word, Text: tok.Text[:size]})
	if rest := tok.Text[size:]; rest != "" {
		p.lex.PushBack(lexer.Token{Kind: lexer.Word, Text: rest})
	}
}

// parseAttachment wraps the previous attachable item (if any) into an
// AttachComponent, consuming the _/^/' operator and, for subscripts and
// superscripts, one trailing item as the script.
func (p *Parser) parseAttachment(hasScript bool, last *attachState, sc scope) bool {
	opTok := p.lex.Pop()
	if !last.valid {
		p.b.PushToken(opTok)
		return false
	}

	base := last.cp
	p.b.StartNodeAt(base, AttachComponent)
	p.b.StartNodeAt(Checkpoint(int(base)+1), ArgumentClause)
	p.b.FinishNode() // ArgumentClause(base)

	p.b.PushToken(opTok)

	if hasScript {
		p.parseAttachmentScript(sc)
	}

	p.b.FinishNode() // AttachComponent
	return true
}

// parseAttachmentScript consumes the script following _ or ^: a single
// character when the next token is a Word, otherwise one full item (a
// brace group, a command, ...).
func (p *Parser) parseAttachmentScript(sc scope) {
	tok := p.lex.Peek()
	if tok.Kind == lexer.EOF || p.isStop(tok, sc) {
		return
	}
	if tok.Kind == lexer.Word {
		p.popSingleRune(p.lex.Pop())
		return
	}
	var dummyLast attachState
	p.parseItem(sc, p.b.Checkpoint(), &dummyLast)
}

// braceKindChar maps a brace to the argument-kind alphabet letter the
// argmatch package matches against.
func braceKindChar(b lexer.BraceKind) byte {
	switch b {
	case lexer.Bracket:
		return 'b'
	case lexer.Paren:
		return 'p'
	default:
		return 't'
	}
}

// scanArguments consumes trailing arguments for a Right-associative
// command, per spec's "Argument scanning" rules.
func (p *Parser) scanArguments(pattern spec.ArgPattern, sc scope) {
	if pattern.Kind == spec.PatternNone {
		return
	}
	if pattern.Kind == spec.PatternGreedy {
		p.b.Start(ArgumentClause)
		p.scanGreedyArgumentBody(sc)
		p.b.FinishNode()
		return
	}

	m := argmatch.New(pattern)
	for {
		tok := p.lex.Peek()
		if tok.Kind == lexer.EOF || p.isStop(tok, sc) {
			return
		}

		switch tok.Kind {
		case lexer.Whitespace, lexer.LineComment, lexer.LineBreak:
			p.b.PushToken(p.lex.Pop())

		case lexer.Word:
			w := p.lex.Pop()
			if !p.scanWordTerm(m, w) {
				return
			}

		case lexer.LeftBrace:
			c := braceKindChar(tok.Brace)
			if m.MatchAsTerm(c) == argmatch.DecisionStop {
				return
			}
			m.Advance(c)
			p.b.Start(ArgumentClause)
			p.parseGroup(tok.Brace, groupScope(tok.Brace))
			p.b.FinishNode()

		default:
			if m.MatchAsTerm('t') == argmatch.DecisionStop {
				return
			}
			m.Advance('t')
			p.b.Start(ArgumentClause)
			var dummyLast attachState
			p.parseItem(sc, p.b.Checkpoint(), &dummyLast)
			p.b.FinishNode()
		}
	}
}

func groupScope(b lexer.BraceKind) scope {
	switch b {
	case lexer.Bracket:
		return scopeBracketItem
	case lexer.Paren:
		return scopeParenItem
	default:
		return scopeCurlyItem
	}
}

// scanWordTerm consumes w one rune at a time as long as m accepts each as a
// term, pushing back whatever remains of w once m rejects a character.
// Reports whether scanning should continue afterwards.
func (p *Parser) scanWordTerm(m *argmatch.Matcher, w lexer.Token) bool {
	text := w.Text
	i := 0
	for i < len(text) {
		_, size := utf8.DecodeRuneInString(text[i:])
		if m.MatchAsTerm('t') == argmatch.DecisionStop {
			p.lex.PushBack(lexer.Token{Kind: lexer.Word, Text: text[i:]})
			return false
		}
		m.Advance('t')
		p.b.Start(ArgumentClause)
		p.b.PushToken(lexer.Token{Kind: lexer.Word, Text: text[i : i+size]})
		p.b.FinishNode()
		i += size
	}
	return true
}

// isSymbolCommand reports whether item describes a command taken with no
// arguments at all: the spec's "Unknown or None/FixedLen(0) pattern" case,
// which the parser renders as a bare Cmd node.
func isSymbolCommand(item spec.Item, ok bool) bool {
	if !ok || item.Kind != spec.ItemCommand {
		return true
	}
	shape := item.Cmd.Args
	return shape.Kind == spec.ShapeRight && shape.Pattern.None()
}

func (p *Parser) emitBareCmd(nameTok lexer.Token) {
	p.b.Start(Cmd)
	p.b.Start(CommandNameClause)
	p.b.PushToken(nameTok)
	p.b.FinishNode()
	p.b.FinishNode()
}

// parseCommand looks up a generic command name and dispatches on its
// argument shape, per spec's "Command parsing" rules.
func (p *Parser) parseCommand(sc scope, listStart Checkpoint, last *attachState) bool {
	nameTok := p.lex.Pop()
	item, ok := p.spec.Get(nameTok.Name)

	if isSymbolCommand(item, ok) {
		p.emitBareCmd(nameTok)
		return true
	}

	shape := item.Cmd.Args
	switch shape.Kind {
	case spec.ShapeLeft1:
		if !last.valid {
			p.emitBareCmd(nameTok)
			return true
		}
		base := last.cp
		p.b.StartNodeAt(base, Cmd)
		p.b.StartNodeAt(Checkpoint(int(base)+1), ArgumentClause)
		p.b.FinishNode() // ArgumentClause(prev)
		p.b.Start(CommandNameClause)
		p.b.PushToken(nameTok)
		p.b.FinishNode()
		p.b.FinishNode() // Cmd
		return true

	case spec.ShapeInfixGreedy:
		p.b.StartNodeAt(listStart, Cmd)
		p.b.StartNodeAt(Checkpoint(int(listStart)+1), ArgumentClause)
		p.b.FinishNode() // ArgumentClause(left items)
		p.b.Start(CommandNameClause)
		p.b.PushToken(nameTok)
		p.b.FinishNode()
		p.b.Start(ArgumentClause)
		p.scanGreedyArgumentBody(sc)
		p.b.FinishNode() // ArgumentClause(right items)
		p.b.FinishNode() // Cmd
		return true

	default: // ShapeRight
		p.b.Start(Cmd)
		p.b.Start(CommandNameClause)
		p.b.PushToken(nameTok)
		p.b.FinishNode()
		p.scanArguments(shape.Pattern, sc)
		p.b.FinishNode()
		return true
	}
}

// parseEnvironment parses \begin{name}, the environment's own argument
// list if its descriptor has one, its body, and a matching \end{name} if
// present.
func (p *Parser) parseEnvironment() bool {
	beginTok := p.lex.Pop()
	item, ok := p.spec.Get(beginTok.EnvName)

	p.b.Start(Env)
	p.b.Start(Begin)
	p.b.PushToken(beginTok)
	p.b.FinishNode()

	if ok && item.Kind == spec.ItemEnvironment && !item.Env.Args.None() {
		p.scanArguments(item.Env.Args, scopeEnvironment)
	}

	p.envDepth++
	p.parseItemList(scopeEnvironment)
	p.envDepth--

	if tok := p.lex.Peek(); isEndEnvTok(tok) {
		p.b.Start(End)
		p.b.PushToken(p.lex.Pop())
		p.b.FinishNode()
	}

	p.b.FinishNode() // Env
	return false
}

// parseDelimiter consumes the single token (or, for a Word run, its first
// rune) naming a \left/\right delimiter.
func (p *Parser) parseDelimiter() {
	tok := p.lex.Peek()
	switch tok.Kind {
	case lexer.EOF, lexer.RightBrace:
		return
	case lexer.Word:
		p.popSingleRune(p.lex.Pop())
	case lexer.CommandName:
		if tok.Cmd == lexer.Generic {
			p.b.PushToken(p.lex.Pop())
		}
	default:
		p.b.PushToken(p.lex.Pop())
	}
}

// parseLeftRight parses a \left delimiter clause, the items inside, and a
// matching \right clause if present. Both clauses are always well-shaped
// even when one is missing or its delimiter is malformed.
func (p *Parser) parseLeftRight(sc scope) bool {
	p.b.Start(LR)

	p.b.Start(LRClause)
	p.b.PushToken(p.lex.Pop()) // \left
	p.parseDelimiter()
	p.b.FinishNode()

	p.parseItemList(scopeLR)

	if tok := p.lex.Peek(); isRightDelimTok(tok) {
		p.b.Start(LRClause)
		p.b.PushToken(p.lex.Pop()) // \right
		p.parseDelimiter()
		p.b.FinishNode()
	}

	p.b.FinishNode() // LR
	return true
}
