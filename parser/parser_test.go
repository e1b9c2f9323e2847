package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/texconv/mitex/spec"
)

func testSpec() spec.CommandSpec {
	return spec.NewBuilder().
		FixedCmd("frac", 2, "frac").
		Symbol("alpha", "alpha").
		Left1Cmd("limits", "").
		InfixCmd("over", "over").
		GlobCmd("sqrt", "{,b}t", "sqrt").
		MatrixEnv("matrix", "mat").
		NormalEnv("document", "").
		Build()
}

// findFirst returns the first descendant of n (including n) whose Kind
// equals kind, via a depth-first search.
func findFirst(n *Node, kind NodeKind) *Node {
	if n == nil {
		return nil
	}
	if n.Kind == kind {
		return n
	}
	for _, c := range n.Children {
		if c.Node != nil {
			if f := findFirst(c.Node, kind); f != nil {
				return f
			}
		}
	}
	return nil
}

// childNodesOfKind returns n's direct (non-recursive) child nodes of the
// given kind, skipping leaf tokens and other node kinds in between — used
// where interleaved whitespace trivia would otherwise shift fixed indices.
func childNodesOfKind(n *Node, kind NodeKind) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Node != nil && c.Node.Kind == kind {
			out = append(out, c.Node)
		}
	}
	return out
}

func countKind(n *Node, kind NodeKind) int {
	if n == nil {
		return 0
	}
	count := 0
	if n.Kind == kind {
		count++
	}
	for _, c := range n.Children {
		if c.Node != nil {
			count += countKind(c.Node, kind)
		}
	}
	return count
}

func TestParseIsLossless(t *testing.T) {
	inputs := []string{
		`\frac{a}{b}`,
		`\alpha_1^2`,
		`\sum\limits\sum`,
		`a \over b`,
		`\sqrt[2]{x}`,
		"\\begin{matrix}\na & b \\\\\nc & d\n\\end{matrix}",
		`\left.\right.`,
		`stray } close`,
		`\end{matrix} stray`,
	}
	sp := testSpec()
	for _, in := range inputs {
		root := Parse(in, sp)
		assert.Equal(t, in, root.Text(), "lossless round trip failed for %q", in)
	}
}

func TestFixedLenArgumentsWrapEachTermSeparately(t *testing.T) {
	root := Parse(`\frac{a}{b}`, testSpec())
	cmd := findFirst(root, Cmd)
	require.NotNil(t, cmd)
	require.Equal(t, 3, len(cmd.Children)) // CommandNameClause + 2 ArgumentClause
	assert.Equal(t, CommandNameClause, cmd.Children[0].Node.Kind)
	assert.Equal(t, ArgumentClause, cmd.Children[1].Node.Kind)
	assert.Equal(t, ArgumentClause, cmd.Children[2].Node.Kind)
	assert.Equal(t, "{a}", cmd.Children[1].Node.Text())
	assert.Equal(t, "{b}", cmd.Children[2].Node.Text())
}

func TestFixedLenSplitsBareWordIntoSingleCharacterTerms(t *testing.T) {
	root := Parse(`\frac ab`, testSpec())
	cmd := findFirst(root, Cmd)
	require.NotNil(t, cmd)
	args := childNodesOfKind(cmd, ArgumentClause)
	require.Len(t, args, 2)
	assert.Equal(t, "a", args[0].Text())
	assert.Equal(t, "b", args[1].Text())
}

func TestSymbolCommandTakesNoArguments(t *testing.T) {
	root := Parse(`\alpha_1`, testSpec())
	attach := findFirst(root, AttachComponent)
	require.NotNil(t, attach)
	base := findFirst(attach, Cmd)
	require.NotNil(t, base)
	assert.Equal(t, "\\alpha", base.Text())
}

func TestLeft1WrapsPrecedingAttachableItem(t *testing.T) {
	root := Parse(`\sum\limits`, testSpec())
	cmd := findFirst(root, Cmd)
	require.NotNil(t, cmd)
	require.Equal(t, 2, len(cmd.Children))
	arg := cmd.Children[0].Node
	assert.Equal(t, ArgumentClause, arg.Kind)
	assert.Equal(t, `\sum`, arg.Text())
	name := cmd.Children[1].Node
	assert.Equal(t, CommandNameClause, name.Kind)
	assert.Equal(t, `\limits`, name.Text())
}

func TestLeft1WithNoPrecedingItemEmitsBareCmd(t *testing.T) {
	root := Parse(`\limits x`, testSpec())
	cmd := findFirst(root, Cmd)
	require.NotNil(t, cmd)
	assert.Equal(t, 1, len(cmd.Children))
}

func TestInfixGreedyWrapsBothSides(t *testing.T) {
	root := Parse(`a \over b`, testSpec())
	cmd := findFirst(root, Cmd)
	require.NotNil(t, cmd)
	require.Equal(t, 3, len(cmd.Children))
	left, name, right := cmd.Children[0].Node, cmd.Children[1].Node, cmd.Children[2].Node
	assert.Equal(t, ArgumentClause, left.Kind)
	assert.Equal(t, "a ", left.Text())
	assert.Equal(t, CommandNameClause, name.Kind)
	assert.Equal(t, ArgumentClause, right.Kind)
	assert.Equal(t, " b", right.Text())
}

func TestGlobArgumentDescendsIntoOptionalBracketThenBrace(t *testing.T) {
	root := Parse(`\sqrt[2]{x}`, testSpec())
	cmd := findFirst(root, Cmd)
	require.NotNil(t, cmd)
	require.Equal(t, 3, len(cmd.Children))
	assert.Equal(t, "[2]", cmd.Children[1].Node.Text())
	assert.Equal(t, "{x}", cmd.Children[2].Node.Text())
}

func TestMatrixEnvironmentStructure(t *testing.T) {
	in := "\\begin{matrix}\na & b \\\\\nc & d\n\\end{matrix}"
	root := Parse(in, testSpec())
	env := findFirst(root, Env)
	require.NotNil(t, env)
	begin := findFirst(env, Begin)
	require.NotNil(t, begin)
	assert.Equal(t, `\begin{matrix}`, begin.Text())
	end := findFirst(env, End)
	require.NotNil(t, end)
	assert.Equal(t, `\end{matrix}`, end.Text())
}

func TestLeftRightWithDotDelimiters(t *testing.T) {
	root := Parse(`\left.\right.`, testSpec())
	lr := findFirst(root, LR)
	require.NotNil(t, lr)
	assert.Equal(t, 2, countKind(lr, LRClause))
	assert.Equal(t, `\left.\right.`, lr.Text())
}

func TestStrayClosingBraceBecomesErrorNode(t *testing.T) {
	root := Parse(`a } b`, testSpec())
	err := findFirst(root, ErrorNode)
	require.NotNil(t, err)
	assert.Equal(t, "}", err.Text())
}

func TestUnclosedGroupLeavesNodeOpenAtEnd(t *testing.T) {
	root := Parse(`{abc`, testSpec())
	curly := findFirst(root, Curly)
	require.NotNil(t, curly)
	assert.Equal(t, "{abc", curly.Text())
}

func TestBlockCommentConsumesNestedIfFi(t *testing.T) {
	root := Parse(`\iffalse \if x \fi more \fi keep`, testSpec())
	bc := findFirst(root, BlockComment)
	require.NotNil(t, bc)
	assert.Equal(t, `\iffalse \if x \fi more \fi`, bc.Text())
	assert.Equal(t, `\iffalse \if x \fi more \fi keep`, root.Text())
}

func TestApostropheAttachesWithoutScript(t *testing.T) {
	root := Parse(`x'`, testSpec())
	attach := findFirst(root, AttachComponent)
	require.NotNil(t, attach)
	assert.Equal(t, "x'", attach.Text())
}
