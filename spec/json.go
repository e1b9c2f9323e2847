package spec

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var schemaSource []byte

const schemaResourceID = "mitex-spec-source.json"

func compileSchema() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaResourceID, bytes.NewReader(schemaSource)); err != nil {
		return nil, fmt.Errorf("spec: load embedded schema: %w", err)
	}
	return c.Compile(schemaResourceID)
}

type jsonArgPattern struct {
	Kind string `json:"kind"`
	Len  uint8  `json:"len,omitempty"`
	Min  uint8  `json:"min,omitempty"`
	Max  uint8  `json:"max,omitempty"`
	Glob string `json:"glob,omitempty"`
}

func (p jsonArgPattern) toPattern() ArgPattern {
	switch p.Kind {
	case "fixed-len":
		return FixedLen(p.Len)
	case "range-len":
		return RangeLen(p.Min, p.Max)
	case "greedy":
		return Greedy
	case "glob":
		return Glob(p.Glob)
	default:
		return NoArgs
	}
}

type jsonArgShape struct {
	Kind    string         `json:"kind"`
	Pattern jsonArgPattern `json:"pattern"`
}

func (s jsonArgShape) toShape() ArgShape {
	switch s.Kind {
	case "left1":
		return Left1
	case "infix-greedy":
		return InfixGreedy
	default:
		return Right(s.Pattern.toPattern())
	}
}

type jsonCommand struct {
	Args  jsonArgShape `json:"args"`
	Alias string       `json:"alias,omitempty"`
}

type jsonEnvironment struct {
	Args    jsonArgPattern `json:"args"`
	Context string         `json:"context,omitempty"`
	Alias   string         `json:"alias,omitempty"`
}

func parseContext(s string) ContextFeature {
	for f := FeatureNone; f <= FeatureEnumerate; f++ {
		if f.String() == s {
			return f
		}
	}
	return FeatureNone
}

type jsonSpecSource struct {
	Commands     map[string]jsonCommand     `json:"commands"`
	Environments map[string]jsonEnvironment `json:"environments"`
}

// CompileJSON validates a JSON spec source document (spec.md §6 "Spec
// source form (tooling)") against the embedded JSON Schema and compiles it
// into a CommandSpec. This is the format a build-time extraction tool (out
// of scope for this module) would emit and that test fixtures use directly.
func CompileJSON(data []byte) (CommandSpec, error) {
	schema, err := compileSchema()
	if err != nil {
		return CommandSpec{}, err
	}

	var validateTarget interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&validateTarget); err != nil {
		return CommandSpec{}, fmt.Errorf("spec: parse JSON: %w", err)
	}
	if err := schema.Validate(validateTarget); err != nil {
		return CommandSpec{}, fmt.Errorf("spec: JSON source failed schema validation: %w", err)
	}

	var src jsonSpecSource
	if err := json.Unmarshal(data, &src); err != nil {
		return CommandSpec{}, fmt.Errorf("spec: decode JSON source: %w", err)
	}

	b := NewBuilder()
	for name, c := range src.Commands {
		b.Cmd(name, c.Args.toShape(), c.Alias)
	}
	for name, e := range src.Environments {
		b.Env(name, e.Args.toPattern(), parseContext(e.Context), e.Alias)
	}
	return b.Build(), nil
}
