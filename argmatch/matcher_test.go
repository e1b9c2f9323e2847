package argmatch

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/texconv/mitex/spec"
)

func TestNonePatternStopsImmediately(t *testing.T) {
	m := New(spec.NoArgs)
	assert.False(t, m.TryMatch('t'))
	assert.Equal(t, DecisionStop, m.MatchAsTerm('t'))
}

func TestFixedLenCountsTerms(t *testing.T) {
	m := New(spec.FixedLen(2))
	assert.True(t, m.TryMatch('t'))
	m.Advance('t')
	assert.True(t, m.TryMatch('b'))
	m.Advance('b')
	assert.False(t, m.TryMatch('t'))
}

func TestRangeLenRespectsMinAndMax(t *testing.T) {
	m := New(spec.RangeLen(1, 2))
	assert.False(t, m.Done())
	assert.True(t, m.TryMatch('t'))
	m.Advance('t')
	assert.True(t, m.Done())
	assert.True(t, m.TryMatch('t'))
	m.Advance('t')
	assert.False(t, m.TryMatch('t'))
}

func TestGreedyAlwaysMatches(t *testing.T) {
	m := New(spec.Greedy)
	for i := 0; i < 100; i++ {
		assert.True(t, m.TryMatch('t'))
	}
}

func TestGlobMatchesPrefixIncrementally(t *testing.T) {
	m := New(spec.Glob("{,b}t"))
	assert.True(t, m.TryMatch('b'))
	m.Advance('b')
	assert.True(t, m.TryMatch('t'))
	m.Advance('t')
	assert.False(t, m.TryMatch('t'))
}

func TestGlobRejectsNonMatchingPrefix(t *testing.T) {
	m := New(spec.Glob("{,b}t"))
	assert.False(t, m.TryMatch('p'))
}

func TestMatchAsTermDistinguishesLiteralFromDescend(t *testing.T) {
	m := New(spec.FixedLen(3))
	assert.Equal(t, DecisionLiteralTerm, m.MatchAsTerm('t'))
	m.Advance('t')
	assert.Equal(t, DecisionDescend, m.MatchAsTerm('b'))
	m.Advance('b')
	assert.Equal(t, DecisionDescend, m.MatchAsTerm('p'))
	m.Advance('p')
	assert.Equal(t, DecisionStop, m.MatchAsTerm('t'))
}
