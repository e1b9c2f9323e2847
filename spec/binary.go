package spec

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/mod/semver"
)

// schemaVersion is bumped (major component) whenever the wire shape of
// wireSpec changes incompatibly. FromBytes refuses to decode an envelope
// whose major version differs from this package's, per spec.md §6 ("the
// binary format is versioned implicitly by its schema; producers and
// consumers must share the schema").
const schemaVersion = "v1.0.0"

// wireItem is the CBOR-serializable mirror of Item. Item itself is kept
// free of struct tags so the in-memory type stays a plain Go value; the
// wire shape is an explicit, separately versioned concern.
type wireItem struct {
	Kind  uint8  `cbor:"1,keyasint"`
	Shape uint8  `cbor:"2,keyasint"` // ArgShapeKind for commands; unused for envs
	PKind uint8  `cbor:"3,keyasint"`
	Len   uint8  `cbor:"4,keyasint"`
	Min   uint8  `cbor:"5,keyasint"`
	Max   uint8  `cbor:"6,keyasint"`
	Glob  string `cbor:"7,keyasint"`
	Ctx   uint8  `cbor:"8,keyasint"` // ContextFeature for envs
	Alias string `cbor:"9,keyasint"`
}

type wireSpec struct {
	Version string              `cbor:"1,keyasint"`
	Items   map[string]wireItem `cbor:"2,keyasint"`
}

func toWireItem(it Item) wireItem {
	w := wireItem{Kind: uint8(it.Kind)}
	switch it.Kind {
	case ItemCommand:
		w.Shape = uint8(it.Cmd.Args.Kind)
		p := it.Cmd.Args.Pattern
		w.PKind, w.Len, w.Min, w.Max, w.Glob = uint8(p.Kind), p.Len, p.Min, p.Max, p.Glob
		w.Alias = it.Cmd.Alias
	case ItemEnvironment:
		p := it.Env.Args
		w.PKind, w.Len, w.Min, w.Max, w.Glob = uint8(p.Kind), p.Len, p.Min, p.Max, p.Glob
		w.Ctx = uint8(it.Env.Context)
		w.Alias = it.Env.Alias
	}
	return w
}

func fromWireItem(w wireItem) Item {
	pattern := ArgPattern{Kind: ArgPatternKind(w.PKind), Len: w.Len, Min: w.Min, Max: w.Max, Glob: w.Glob}
	switch ItemKind(w.Kind) {
	case ItemCommand:
		shape := ArgShape{Kind: ArgShapeKind(w.Shape), Pattern: pattern}
		return Item{Kind: ItemCommand, Cmd: CmdShape{Args: shape, Alias: w.Alias}}
	default:
		return Item{Kind: ItemEnvironment, Env: EnvShape{Args: pattern, Context: ContextFeature(w.Ctx), Alias: w.Alias}}
	}
}

// ToBytes encodes the spec into the compact binary form required by
// spec.md §4.1/§6, for embedding in a host program or caching on disk.
func (s CommandSpec) ToBytes() ([]byte, error) {
	w := wireSpec{Version: schemaVersion, Items: make(map[string]wireItem, len(s.items))}
	for name, it := range s.items {
		w.Items[name] = toWireItem(it)
	}
	// Canonical encoding sorts map keys, so equal specs encode to equal bytes.
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return nil, err
	}
	return em.Marshal(w)
}

// FromBytes decodes a spec previously produced by ToBytes. It rejects data
// whose schema major version differs from the version this package was
// built against, since a major bump implies an incompatible wire shape.
func FromBytes(data []byte) (CommandSpec, error) {
	var w wireSpec
	if err := cbor.Unmarshal(data, &w); err != nil {
		return CommandSpec{}, fmt.Errorf("spec: decode binary form: %w", err)
	}
	if semver.Major(w.Version) != semver.Major(schemaVersion) {
		return CommandSpec{}, fmt.Errorf("spec: incompatible schema version %s (want %s.x)", w.Version, semver.Major(schemaVersion))
	}
	items := make(map[string]Item, len(w.Items))
	for name, wi := range w.Items {
		items[name] = fromWireItem(wi)
	}
	return CommandSpec{items: items}, nil
}
