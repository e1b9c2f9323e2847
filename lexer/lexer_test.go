package lexer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/texconv/mitex/spec"
)

func tokenizeAll(t *testing.T, input string, sp spec.CommandSpec) []Token {
	t.Helper()
	l := New(input, sp)
	var toks []Token
	for {
		tok := l.Pop()
		toks = append(toks, tok)
		if tok.Kind == EOF {
			break
		}
	}
	return toks
}

func TestLosslessLexing(t *testing.T) {
	inputs := []string{
		`\frac{a}{b}`,
		`\int_1^2 x \mathrm{d} x`,
		`\alpha_1`,
		`\sum\limits\sum`,
		`\left.\right.`,
		"\\begin{matrix}\na & b \\\\\nc & d\n\\end{matrix}",
		`100% not a comment followed by % a real comment` + "\n",
		`\@ifstar*{a}{b}`,
		`$x$ and $$y$$`,
		`\, \/ \^ \_ \# \* \@ \" \; \( \) \[ \]`,
	}
	for _, in := range inputs {
		sp := spec.Default()
		toks := tokenizeAll(t, in, sp)
		var sb strings.Builder
		for _, tok := range toks {
			sb.WriteString(tok.Text)
		}
		assert.Equal(t, in, sb.String(), "losslessness failed for %q", in)
	}
}

func TestCommandNameClassification(t *testing.T) {
	sp := spec.NewBuilder().Build()
	toks := tokenizeAll(t, `\begin{matrix}\end{matrix}\left\right\iffalse\fi\else\alpha`, sp)

	require.GreaterOrEqual(t, len(toks), 7)
	assert.Equal(t, BeginEnv, toks[0].Cmd)
	assert.Equal(t, "matrix", toks[0].EnvName)
	assert.Equal(t, EndEnv, toks[1].Cmd)
	assert.Equal(t, "matrix", toks[1].EnvName)
	assert.Equal(t, LeftDelim, toks[2].Cmd)
	assert.Equal(t, RightDelim, toks[3].Cmd)
	assert.Equal(t, If, toks[4].Cmd)
	assert.Equal(t, "iffalse", toks[4].Name)
	assert.Equal(t, EndIf, toks[5].Cmd)
	assert.Equal(t, Else, toks[6].Cmd)
}

func TestErrorBeginEnvOnMalformedBody(t *testing.T) {
	sp := spec.NewBuilder().Build()
	toks := tokenizeAll(t, `\begin matrix}`, sp)
	require.NotEmpty(t, toks)
	assert.Equal(t, ErrorBeginEnv, toks[0].Cmd)
	assert.Equal(t, `\begin`, toks[0].Text)
}

func TestOneCharacterEscape(t *testing.T) {
	sp := spec.NewBuilder().Build()
	toks := tokenizeAll(t, `\(\)\[\]\,`, sp)
	require.Len(t, toks, 6) // 5 escapes + EOF
	assert.Equal(t, BeginMath, toks[0].Cmd)
	assert.Equal(t, EndMath, toks[1].Cmd)
	assert.Equal(t, BeginMath, toks[2].Cmd)
	assert.Equal(t, EndMath, toks[3].Cmd)
	assert.Equal(t, Generic, toks[4].Cmd)
	assert.Equal(t, ",", toks[4].Name)
}

func TestStarredCommandRequiresSpecRegistration(t *testing.T) {
	unstarred := spec.NewBuilder().Build()
	toks := tokenizeAll(t, `\section*`, unstarred)
	require.GreaterOrEqual(t, len(toks), 2)
	assert.Equal(t, "section", toks[0].Name)
	assert.Equal(t, Asterisk, toks[1].Kind)

	starred := spec.NewBuilder().FixedCmd("section*", 1, "").Build()
	toks = tokenizeAll(t, `\section*`, starred)
	require.GreaterOrEqual(t, len(toks), 1)
	assert.Equal(t, "section*", toks[0].Name)
}

func TestDoubleBackslashIsNewLineNotCommand(t *testing.T) {
	sp := spec.NewBuilder().Build()
	toks := tokenizeAll(t, `\\`, sp)
	require.GreaterOrEqual(t, len(toks), 1)
	assert.Equal(t, NewLine, toks[0].Kind)
	assert.Equal(t, `\\`, toks[0].Text)
}

func TestDollarSingleAndDouble(t *testing.T) {
	sp := spec.NewBuilder().Build()
	toks := tokenizeAll(t, `$ $$`, sp)
	require.GreaterOrEqual(t, len(toks), 3)
	assert.Equal(t, Dollar, toks[0].Kind)
	assert.Equal(t, "$", toks[0].Text)
	assert.Equal(t, Whitespace, toks[1].Kind)
	assert.Equal(t, Dollar, toks[2].Kind)
	assert.Equal(t, "$$", toks[2].Text)
}

func TestPeekDoesNotAdvance(t *testing.T) {
	sp := spec.NewBuilder().Build()
	l := New(`abc`, sp)
	first := l.Peek()
	second := l.Peek()
	assert.Equal(t, first, second)
	popped := l.Pop()
	assert.Equal(t, first, popped)
}

func TestPushBack(t *testing.T) {
	sp := spec.NewBuilder().Build()
	l := New(`ab`, sp)
	first := l.Pop()
	l.PushBack(first)
	again := l.Pop()
	assert.Equal(t, first, again)
}
