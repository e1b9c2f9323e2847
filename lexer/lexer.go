package lexer

import (
	"log/slog"
	"os"
	"unicode"
	"unicode/utf8"

	"github.com/texconv/mitex/spec"
)

// debugLogger mirrors the teacher's gated-debug-logging pattern: silent by
// default, switched to slog.LevelDebug only when MITEX_DEBUG_LEXER is set,
// with the timestamp and level attrs stripped for compact output.
func debugLogger() *slog.Logger {
	level := slog.LevelInfo
	if os.Getenv("MITEX_DEBUG_LEXER") != "" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey || a.Key == slog.LevelKey {
				return slog.Attr{}
			}
			return a
		},
	}))
}

// ifVariants is the set of \if... command names that classify as If rather
// than Generic (spec's "Command-name recognition" list).
var ifVariants = map[string]bool{
	"if": true, "iftypst": true, "iffalse": true, "iftrue": true,
	"ifcase": true, "ifnum": true, "ifcat": true, "ifx": true, "ifvoid": true,
	"ifhbox": true, "ifvbox": true, "ifhmode": true, "ifmmode": true,
	"ifvmode": true, "ifinner": true, "ifdim": true, "ifeof": true,
	"@ifstar": true,
}

var singlePunct = map[rune]TokenKind{
	',': Comma,
	'~': Tilde,
	'/': Slash,
	'&': Ampersand,
	'^': Caret,
	'\'': Apostrophe,
	'"': Ditto,
	';': Semicolon,
	'#': Hash,
	'*': Asterisk,
	'@': AtSign,
	'_': Underscore,
}

// Lexer tokenizes LaTeX source. It is never constructed with a spec that
// can change underneath it: CommandSpec is immutable once built.
type Lexer struct {
	input   string
	pos     int // byte offset of the rune currently under examination
	readPos int // byte offset of the next rune to read
	ch      rune

	spec spec.CommandSpec

	logger *slog.Logger

	// buf/bufPos implement the peek cache: tokens already scanned but not
	// yet popped. PushBack inserts at bufPos so the next Pop returns it.
	buf    []Token
	bufPos int
}

// New constructs a Lexer over input using sp to disambiguate starred
// command names and environment keywords. Passing the zero CommandSpec is
// valid; no name will match as starred, which only affects the trailing-'*'
// heuristic, never correctness of tokenization.
func New(input string, sp spec.CommandSpec) *Lexer {
	l := &Lexer{input: input, spec: sp, logger: debugLogger()}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	l.pos = l.readPos
	if l.readPos >= len(l.input) {
		l.ch = 0
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.readPos:])
	if r == utf8.RuneError && size <= 1 {
		r, size = rune(l.input[l.readPos]), 1
	}
	l.ch = r
	l.readPos += size
}

func (l *Lexer) peekRune() rune {
	if l.readPos >= len(l.input) {
		return 0
	}
	r, size := utf8.DecodeRuneInString(l.input[l.readPos:])
	if r == utf8.RuneError && size <= 1 {
		return rune(l.input[l.readPos])
	}
	return r
}

// Peek returns the next token without consuming it.
func (l *Lexer) Peek() Token {
	l.ensureFilled()
	return l.buf[l.bufPos]
}

// Pop returns and consumes the next token.
func (l *Lexer) Pop() Token {
	l.ensureFilled()
	t := l.buf[l.bufPos]
	l.bufPos++
	if l.bufPos > 256 && l.bufPos*2 > len(l.buf) {
		l.buf = append([]Token(nil), l.buf[l.bufPos:]...)
		l.bufPos = 0
	}
	return t
}

// PushBack makes t the next token returned by Peek/Pop. It is used by the
// macro pre-expander and by parser lookahead that needs to undo a Pop.
func (l *Lexer) PushBack(t Token) {
	if l.bufPos > 0 {
		l.bufPos--
		l.buf[l.bufPos] = t
		return
	}
	l.buf = append([]Token{t}, l.buf...)
}

func (l *Lexer) ensureFilled() {
	if l.bufPos < len(l.buf) {
		return
	}
	l.buf = append(l.buf, l.scanToken())
}

func isSpaceNotNewline(r rune) bool {
	return r != '\n' && r != '\r' && unicode.IsSpace(r)
}

func isAsciiAlpha(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isWordStop(r rune) bool {
	if r == 0 || unicode.IsSpace(r) {
		return true
	}
	switch r {
	case '\\', '%', '{', '}', ',', '$', '[', ']', '(', ')', '~', '/', '_',
		'*', '@', '\'', '"', ';', '&', '^', '#':
		return true
	}
	return false
}

// scanToken is the one-token dispatch, analogous to the teacher's
// NextToken/lexLanguageMode switch but with a single, context-free mode:
// LaTeX tokenization needs no shell-style state machine.
func (l *Lexer) scanToken() Token {
	start := l.pos

	switch {
	case l.ch == 0:
		return Token{Kind: EOF}

	case l.ch == '\r' || l.ch == '\n':
		for l.ch == '\r' || l.ch == '\n' {
			l.readChar()
		}
		return Token{Kind: LineBreak, Text: l.input[start:l.pos]}

	case isSpaceNotNewline(l.ch):
		for isSpaceNotNewline(l.ch) {
			l.readChar()
		}
		return Token{Kind: Whitespace, Text: l.input[start:l.pos]}

	case l.ch == '%':
		for l.ch != 0 && l.ch != '\r' && l.ch != '\n' {
			l.readChar()
		}
		return Token{Kind: LineComment, Text: l.input[start:l.pos]}

	case l.ch == '$':
		l.readChar()
		if l.ch == '$' {
			l.readChar()
		}
		return Token{Kind: Dollar, Text: l.input[start:l.pos]}

	case l.ch == '\\' && l.peekRune() == '\\':
		l.readChar()
		l.readChar()
		return Token{Kind: NewLine, Text: l.input[start:l.pos]}

	case l.ch == '\\':
		return l.scanCommandName(start)

	case l.ch == '{':
		l.readChar()
		return Token{Kind: LeftBrace, Brace: Curly, Text: l.input[start:l.pos]}
	case l.ch == '}':
		l.readChar()
		return Token{Kind: RightBrace, Brace: Curly, Text: l.input[start:l.pos]}
	case l.ch == '[':
		l.readChar()
		return Token{Kind: LeftBrace, Brace: Bracket, Text: l.input[start:l.pos]}
	case l.ch == ']':
		l.readChar()
		return Token{Kind: RightBrace, Brace: Bracket, Text: l.input[start:l.pos]}
	case l.ch == '(':
		l.readChar()
		return Token{Kind: LeftBrace, Brace: Paren, Text: l.input[start:l.pos]}
	case l.ch == ')':
		l.readChar()
		return Token{Kind: RightBrace, Brace: Paren, Text: l.input[start:l.pos]}
	}

	if kind, ok := singlePunct[l.ch]; ok {
		l.readChar()
		return Token{Kind: kind, Text: l.input[start:l.pos]}
	}

	if !isWordStop(l.ch) {
		for !isWordStop(l.ch) {
			l.readChar()
		}
		return Token{Kind: Word, Text: l.input[start:l.pos]}
	}

	// Any remaining rune (e.g. an isolated combining mark classified as
	// space by neither branch) is emitted as a one-rune word so the lexer
	// never gets stuck without advancing.
	l.readChar()
	return Token{Kind: Word, Text: l.input[start:l.pos]}
}

// scanCommandName handles everything after a lone backslash: empty names,
// one-character escapes, and alphabetic/@ names with spec-gated starred
// forms and begin/end/if/else/fi classification.
func (l *Lexer) scanCommandName(start int) Token {
	l.readChar() // consume '\'

	if l.ch == 0 || unicode.IsSpace(l.ch) {
		return Token{Kind: CommandName, Cmd: Generic, Name: "", Text: l.input[start:l.pos]}
	}

	if l.ch != '@' && !isAsciiAlpha(l.ch) {
		escaped := l.ch
		l.readChar()
		kind := Generic
		switch escaped {
		case '(', '[':
			kind = BeginMath
		case ')', ']':
			kind = EndMath
		}
		return Token{Kind: CommandName, Cmd: kind, Name: string(escaped), Text: l.input[start:l.pos]}
	}

	nameStart := l.pos
	for l.ch == '@' || isAsciiAlpha(l.ch) {
		l.readChar()
	}
	base := l.input[nameStart:l.pos]

	name := base
	if l.ch == '*' {
		starred := base + "*"
		if _, ok := l.spec.Get(starred); ok {
			l.readChar()
			name = starred
		}
	}

	switch name {
	case "begin":
		return l.scanEnvKeyword(start, BeginEnv, ErrorBeginEnv)
	case "end":
		return l.scanEnvKeyword(start, EndEnv, ErrorEndEnv)
	case "left":
		return Token{Kind: CommandName, Cmd: LeftDelim, Name: name, Text: l.input[start:l.pos]}
	case "right":
		return Token{Kind: CommandName, Cmd: RightDelim, Name: name, Text: l.input[start:l.pos]}
	case "else":
		return Token{Kind: CommandName, Cmd: Else, Name: name, Text: l.input[start:l.pos]}
	case "fi":
		return Token{Kind: CommandName, Cmd: EndIf, Name: name, Text: l.input[start:l.pos]}
	}
	if ifVariants[name] {
		return Token{Kind: CommandName, Cmd: If, Name: name, Text: l.input[start:l.pos]}
	}
	return Token{Kind: CommandName, Cmd: Generic, Name: name, Text: l.input[start:l.pos]}
}

// scanEnvKeyword attempts the environment-name scan required after \begin
// or \end: optional whitespace/comments, then {name}. On failure it
// restores the lexer to just past the keyword and returns the error kind.
func (l *Lexer) scanEnvKeyword(start int, okKind, errKind CommandKind) Token {
	savedPos, savedReadPos, savedCh := l.pos, l.readPos, l.ch
	keywordEnd := l.pos

	l.skipWhitespaceAndComments()

	if l.ch != '{' {
		l.pos, l.readPos, l.ch = savedPos, savedReadPos, savedCh
		return Token{Kind: CommandName, Cmd: errKind, Text: l.input[start:keywordEnd]}
	}
	l.readChar()

	nameStart := l.pos
	for l.ch == '@' || isAsciiAlpha(l.ch) {
		l.readChar()
	}
	envName := l.input[nameStart:l.pos]
	if envName == "" || l.ch != '}' {
		l.pos, l.readPos, l.ch = savedPos, savedReadPos, savedCh
		return Token{Kind: CommandName, Cmd: errKind, Text: l.input[start:keywordEnd]}
	}
	l.readChar() // consume '}'

	return Token{Kind: CommandName, Cmd: okKind, EnvName: envName, Text: l.input[start:l.pos]}
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		for unicode.IsSpace(l.ch) {
			l.readChar()
		}
		if l.ch == '%' {
			for l.ch != 0 && l.ch != '\r' && l.ch != '\n' {
				l.readChar()
			}
			continue
		}
		break
	}
}
