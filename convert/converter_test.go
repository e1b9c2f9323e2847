package convert_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/texconv/mitex/convert"
	"github.com/texconv/mitex/parser"
	"github.com/texconv/mitex/spec"
)

func convertMath(t *testing.T, input string) (string, error) {
	t.Helper()
	sp := spec.Default()
	root := parser.Parse(input, sp)
	return convert.New(sp, convert.ModeMath).Convert(root)
}

func convertText(t *testing.T, input string) (string, error) {
	t.Helper()
	sp := spec.Default()
	root := parser.Parse(input, sp)
	return convert.New(sp, convert.ModeText).Convert(root)
}

// TestWorkedExamples reproduces the seven literal end-to-end scenarios from
// spec.md §8, byte for byte.
func TestWorkedExamples(t *testing.T) {
	cases := []struct {
		name  string
		mode  string
		input string
		want  string
	}{
		{"frac", "math", `\frac{ a }{ b }`, `frac( a  , b  )`},
		{"int-mathrm", "math", `\int_1^2 x \mathrm{d} x`, `integral _(1 )^(2 ) x  upright(d ) x `},
		{"subscript", "math", `\alpha_1`, `alpha _(1 )`},
		{"left1", "math", `\sum\limits\sum`, `limits(sum )sum `},
		{"lr-dots", "math", `\left.\right.`, `lr(  )`},
		{
			"matrix", "math",
			"\\begin{matrix}\na & b \\\\\nc & d\n\\end{matrix}",
			"matrix(\na  zws , b  zws ;\nc  zws , d \n)",
		},
		{"text-escape", "math", `\text{abc}`, `#textmath[abc];`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := convertMath(t, tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestMathModeSeparatesLetters(t *testing.T) {
	got, err := convertMath(t, `abc`)
	require.NoError(t, err)
	assert.Equal(t, "a b c ", got)
}

func TestTextModeWordsAreVerbatim(t *testing.T) {
	got, err := convertText(t, `hello world`)
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
}

func TestUnknownCommandShortCircuits(t *testing.T) {
	_, err := convertMath(t, `a \nosuchcommand b`)
	require.Error(t, err)
	var cerr *convert.Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, convert.KindUnknownCommand, cerr.Kind)
	assert.Equal(t, "nosuchcommand", cerr.Name)
}

func TestUnknownEnvironmentErrors(t *testing.T) {
	_, err := convertMath(t, "\\begin{nosuchenv}x\\end{nosuchenv}")
	require.Error(t, err)
	var cerr *convert.Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, convert.KindUnknownEnvironment, cerr.Kind)
}

func TestItemOutsideListErrors(t *testing.T) {
	_, err := convertMath(t, `\item x`)
	require.Error(t, err)
	var cerr *convert.Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, convert.KindItemOutsideList, cerr.Kind)
}

func TestItemizeTranslatesItemsToBullets(t *testing.T) {
	got, err := convertText(t, "\\begin{itemize}\\item a\\item b\\end{itemize}")
	require.NoError(t, err)
	assert.Contains(t, got, "- ")
	assert.NotContains(t, got, "+ ")
}

func TestEnumerateTranslatesItemsToPluses(t *testing.T) {
	got, err := convertText(t, "\\begin{enumerate}\\item a\\end{enumerate}")
	require.NoError(t, err)
	assert.Contains(t, got, "+ ")
}

func TestSubstackUsesEmptyAliasFallback(t *testing.T) {
	got, err := convertMath(t, `\substack{a}`)
	require.NoError(t, err)
	assert.Equal(t, "substack(a )", got)
}

func TestLabelInsideNonMathEnvironmentEmitsImmediately(t *testing.T) {
	got, err := convertText(t, "\\begin{itemize}\\item x\\label{foo}\\end{itemize}")
	require.NoError(t, err)
	assert.Contains(t, got, "<foo>")
}

func TestStrayEndBecomesClausesOutsideEnvironmentError(t *testing.T) {
	_, err := convertMath(t, `a \end{matrix} b`)
	require.Error(t, err)
	var cerr *convert.Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, convert.KindClausesOutsideEnvironment, cerr.Kind)
}

func TestStrayRightBraceBecomesUnexpectedError(t *testing.T) {
	_, err := convertMath(t, `a } b`)
	require.Error(t, err)
	var cerr *convert.Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, convert.KindUnexpected, cerr.Kind)
}
