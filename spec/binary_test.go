package spec

import (
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestBinaryRoundTrip(t *testing.T) {
	b := NewBuilder()
	b.FixedCmd("frac", 2, "")
	b.Symbol("alpha", "")
	b.GlobCmd("sqrt", "{,b}t", "")
	b.Left1Cmd("limits", "limits")
	b.InfixCmd("over", "over")
	b.MatrixEnv("pmatrix", "mat")
	want := b.Build()

	data, err := want.ToBytes()
	require.NoError(t, err)

	got, err := FromBytes(data)
	require.NoError(t, err)

	require.Equal(t, want.Len(), got.Len())
	for _, name := range want.Names() {
		wantItem, _ := want.Get(name)
		gotItem, ok := got.Get(name)
		require.True(t, ok, "missing name %q after round trip", name)
		if diff := cmp.Diff(wantItem, gotItem); diff != "" {
			t.Errorf("item %q mismatch after round trip: %s", name, diff)
		}
	}
}

func TestFromBytesRejectsIncompatibleVersion(t *testing.T) {
	s := NewBuilder().Symbol("alpha", "").Build()
	data, err := s.ToBytes()
	require.NoError(t, err)

	// Bump the embedded major version and re-encode.
	var w wireSpec
	require.NoError(t, cbor.Unmarshal(data, &w))
	w.Version = "v2.0.0"
	bumped, err := cbor.Marshal(w)
	require.NoError(t, err)
	_, err = FromBytes(bumped)
	require.Error(t, err)

	// Garbage input is rejected by the decode step.
	_, err = FromBytes(append([]byte{0xff, 0xff}, data...))
	require.Error(t, err)
}
