package macro_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/texconv/mitex/macro"
	"github.com/texconv/mitex/spec"
)

func TestSimpleMacroExpansion(t *testing.T) {
	out, err := macro.Expand(`\newcommand{\foo}[1]{#1+#1}\foo{x}`, spec.Default())
	require.NoError(t, err)
	assert.Equal(t, `x+x`, out)
}

func TestInputWithNoDefinitionsPassesThroughUnchanged(t *testing.T) {
	out, err := macro.Expand(`\alpha + \beta`, spec.Default())
	require.NoError(t, err)
	assert.Equal(t, `\alpha + \beta`, out)
}

func TestRenewcommandOverridesPriorDefinition(t *testing.T) {
	out, err := macro.Expand(`\newcommand{\foo}[1]{#1#1}\renewcommand{\foo}[1]{[#1]}\foo{z}`, spec.Default())
	require.NoError(t, err)
	assert.Equal(t, `[z]`, out)
}

func TestZeroArityMacro(t *testing.T) {
	out, err := macro.Expand(`\newcommand{\greeting}{hello}\greeting world`, spec.Default())
	require.NoError(t, err)
	assert.Equal(t, `hello world`, out)
}

func TestNestedMacroExpansion(t *testing.T) {
	out, err := macro.Expand(
		`\newcommand{\double}[1]{#1#1}\newcommand{\quad}[1]{\double{\double{#1}}}\quad{a}`,
		spec.Default(),
	)
	require.NoError(t, err)
	assert.Equal(t, `aaaa`, out)
}

func TestBareTokenArgumentWithoutBraces(t *testing.T) {
	out, err := macro.Expand(`\newcommand{\id}[1]{#1}\id x`, spec.Default())
	require.NoError(t, err)
	assert.Equal(t, `x`, out)
}

func TestMissingBodyIsAnError(t *testing.T) {
	_, err := macro.Expand(`\newcommand{\foo}`, spec.Default())
	require.Error(t, err)
}
