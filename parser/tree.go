// Package parser builds a lossless concrete syntax tree from a lexer.Lexer
// token stream, using a recursive-descent strategy over an event log — the
// same Open/Close/Token event shape the teacher's own parser
// (runtime/parser/tree.go) records its syntax tree as, extended here with
// a Checkpoint/StartNodeAt pair for retroactive node wrapping. Rowan's
// GreenNodeBuilder (the Rust original's tree builder) has no equivalent Go
// library in this retrieval pack, so the event log is this package's own
// from-scratch substitute: because every Start/StartNodeAt call is matched
// by exactly one later Finish call in strict call order, appending a Close
// event always closes whichever node — ordinary or retroactively placed —
// was opened most recently, independent of where in the slice its Open
// event physically lives.
package parser

import "github.com/texconv/mitex/lexer"

// NodeKind labels an interior node of the syntax tree.
type NodeKind uint8

const (
	Root NodeKind = iota
	Text
	Curly
	Bracket
	Paren
	Formula
	Cmd
	CommandNameClause
	ArgumentClause
	Env
	Begin
	End
	LR
	LRClause
	AttachComponent
	BlockComment
	ErrorNode
)

func (k NodeKind) String() string {
	names := [...]string{
		"Root", "Text", "Curly", "Bracket", "Paren", "Formula", "Cmd",
		"CommandNameClause", "ArgumentClause", "Env", "Begin", "End", "LR",
		"LRClause", "AttachComponent", "BlockComment", "ErrorNode",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return "Unknown"
}

type eventKind uint8

const (
	eventOpen eventKind = iota
	eventClose
	eventToken
)

type event struct {
	kind     eventKind
	nodeKind NodeKind // meaningful for eventOpen
	tokenIdx int      // meaningful for eventToken
}

// Checkpoint marks a position in the event log that can later be retroactively
// wrapped into a new node via Builder.StartNodeAt.
type Checkpoint int

// Builder accumulates a flat event log while the parser walks the token
// stream, then materializes it into a Node tree via Finish.
type Builder struct {
	tokens []lexer.Token
	events []event
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Start opens a new node of kind.
func (b *Builder) Start(kind NodeKind) {
	b.events = append(b.events, event{kind: eventOpen, nodeKind: kind})
}

// Checkpoint records the current event-log position for later retroactive
// wrapping. It must be taken before the item(s) to be wrapped are parsed.
func (b *Builder) Checkpoint() Checkpoint {
	return Checkpoint(len(b.events))
}

// StartNodeAt retroactively opens a node of kind at cp: everything parsed
// between cp and the matching FinishNode call becomes that node's
// children, even though those events were already appended to the log.
// This is the primitive the parser's Left1 and InfixGreedy command shapes
// need (spec's "Retroactive node wrapping" design note).
func (b *Builder) StartNodeAt(cp Checkpoint, kind NodeKind) {
	b.events = append(b.events, event{})
	copy(b.events[cp+1:], b.events[cp:])
	b.events[cp] = event{kind: eventOpen, nodeKind: kind}
}

// FinishNode closes the most recently opened node — the one opened by the
// Start or StartNodeAt call that most recently lacks a matching FinishNode.
func (b *Builder) FinishNode() {
	b.events = append(b.events, event{kind: eventClose})
}

// PushToken appends a leaf token to the node currently being built.
func (b *Builder) PushToken(tok lexer.Token) {
	idx := len(b.tokens)
	b.tokens = append(b.tokens, tok)
	b.events = append(b.events, event{kind: eventToken, tokenIdx: idx})
}

// Finish materializes the event log into the final Node tree. It must be
// called exactly once, after the outermost node has been closed.
func (b *Builder) Finish() *Node {
	var stack []*Node
	var root *Node
	for _, ev := range b.events {
		switch ev.kind {
		case eventOpen:
			stack = append(stack, &Node{Kind: ev.nodeKind})
		case eventClose:
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				root = n
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, Element{Node: n})
			}
		case eventToken:
			tok := b.tokens[ev.tokenIdx]
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, Element{Token: &tok})
		}
	}
	return root
}

// Element is a tagged union: exactly one of Node or Token is non-nil.
type Element struct {
	Node  *Node
	Token *lexer.Token
}

// IsToken reports whether this element is a leaf token.
func (e Element) IsToken() bool { return e.Token != nil }

// Text returns the source text this element spans.
func (e Element) Text() string {
	if e.Token != nil {
		return e.Token.Text
	}
	if e.Node != nil {
		return e.Node.Text()
	}
	return ""
}

// Node is an interior syntax-tree node: a kind plus an ordered list of
// child nodes and leaf tokens. Every source byte appears in exactly one
// leaf token; Text() reconstructs a node's span by concatenating
// descendants.
type Node struct {
	Kind     NodeKind
	Children []Element
}

// Text concatenates the source text of every descendant leaf token,
// reproducing the node's exact source span (losslessness).
func (n *Node) Text() string {
	if n == nil {
		return ""
	}
	var out []byte
	for _, c := range n.Children {
		out = append(out, c.Text()...)
	}
	return string(out)
}

// Tokens returns every leaf token under n, in document order.
func (n *Node) Tokens() []lexer.Token {
	if n == nil {
		return nil
	}
	var out []lexer.Token
	for _, c := range n.Children {
		if c.Token != nil {
			out = append(out, *c.Token)
		} else {
			out = append(out, c.Node.Tokens()...)
		}
	}
	return out
}
