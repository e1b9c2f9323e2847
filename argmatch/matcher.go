// Package argmatch interprets an spec.ArgPattern as a small incremental
// state machine over argument-kind characters ('t' term, 'b' bracket
// group, 'p' paren group), the way spec's component design (C3) requires:
// argument patterns stay plain data, never compiled into control flow, so
// a runtime-pluggable spec works without recompilation.
package argmatch

import "github.com/texconv/mitex/spec"

// Decision is the result of MatchAsTerm: whether the caller should treat
// the current input character as a literal term, descend into the
// corresponding group, or stop matching entirely.
type Decision uint8

const (
	// DecisionLiteralTerm: match, and treat the input as a literal term
	// character rather than descending into a group.
	DecisionLiteralTerm Decision = iota
	// DecisionDescend: match, and descend into the group the character names.
	DecisionDescend
	// DecisionStop: no longer matching.
	DecisionStop
)

// Matcher drives one argument-list scan against a single spec.ArgPattern.
// It is not safe for concurrent use and is discarded after one scan.
type Matcher struct {
	pattern spec.ArgPattern
	consumed uint8  // terms consumed so far, for FixedLen/RangeLen
	buf      []byte // running buffer of argument-kind characters, for Glob
}

// New starts a match against pattern.
func New(pattern spec.ArgPattern) *Matcher {
	return &Matcher{pattern: pattern}
}

// TryMatch reports whether c extends a valid match. It does not mutate
// matcher state — callers call it to decide whether to continue scanning
// before committing the character via Advance.
func (m *Matcher) TryMatch(c byte) bool {
	switch m.pattern.Kind {
	case spec.PatternNone:
		return false
	case spec.PatternFixedLen:
		return m.consumed < m.pattern.Len
	case spec.PatternRangeLen:
		return m.consumed < m.pattern.Max
	case spec.PatternGreedy:
		return true
	case spec.PatternGlob:
		return spec.GlobMatchPrefix(m.pattern.Glob, string(m.buf)+string(c))
	default:
		return false
	}
}

// MatchAsTerm answers the question the parser asks for every argument
// character once TryMatch has confirmed it extends the match: should this
// be taken as a literal term, or should the caller descend into a group?
//
// For every pattern kind (None/FixedLen/RangeLen/Greedy/Glob), the
// decision only depends on whether TryMatch(c) succeeded: a successful
// match always means "consume and descend" for 'b'/'p' characters and
// "consume as a literal" for 't'. An opening bracket is never taken as a
// literal term. Advance must be called afterwards to commit the character
// to matcher state.
func (m *Matcher) MatchAsTerm(c byte) Decision {
	if !m.TryMatch(c) {
		return DecisionStop
	}
	if c == 't' {
		return DecisionLiteralTerm
	}
	return DecisionDescend
}

// Advance commits a character that TryMatch already accepted, updating
// internal counters. Callers must call Advance exactly once per accepted
// character, after MatchAsTerm/TryMatch and before testing the next one.
func (m *Matcher) Advance(c byte) {
	switch m.pattern.Kind {
	case spec.PatternFixedLen, spec.PatternRangeLen:
		m.consumed++
	case spec.PatternGlob:
		m.buf = append(m.buf, c)
	}
}

// Done reports whether the pattern has consumed the minimum it requires
// (only meaningful for RangeLen; all other kinds are always "done" in the
// sense that stopping now yields a valid match).
func (m *Matcher) Done() bool {
	if m.pattern.Kind == spec.PatternRangeLen {
		return m.consumed >= m.pattern.Min
	}
	return true
}
