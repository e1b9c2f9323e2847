package spec

// CommandSpec is an immutable, cheaply shareable registry mapping a command
// or environment name (without the leading backslash) to its descriptor.
// It is built once via Builder and never mutated afterwards (spec.md §4.1:
// "The spec is read-only after construction").
type CommandSpec struct {
	items map[string]Item
}

// Get looks up an item by name. It never panics; unknown names resolve to
// (zero Item, false), and callers are responsible for deciding how to react
// (spec.md §4.1 "unknown names are passed through unchanged by consumers").
func (s CommandSpec) Get(name string) (Item, bool) {
	if s.items == nil {
		return Item{}, false
	}
	it, ok := s.items[name]
	return it, ok
}

// GetCmd looks up a command descriptor by name.
func (s CommandSpec) GetCmd(name string) (CmdShape, bool) {
	it, ok := s.Get(name)
	if !ok || it.Kind != ItemCommand {
		return CmdShape{}, false
	}
	return it.Cmd, true
}

// GetEnv looks up an environment descriptor by name.
func (s CommandSpec) GetEnv(name string) (EnvShape, bool) {
	it, ok := s.Get(name)
	if !ok || it.Kind != ItemEnvironment {
		return EnvShape{}, false
	}
	return it.Env, true
}

// Len returns the number of registered names.
func (s CommandSpec) Len() int { return len(s.items) }

// Items iterates all (name, item) pairs in the spec. Iteration order is
// unspecified.
func (s CommandSpec) Items(yield func(name string, item Item) bool) {
	for name, it := range s.items {
		if !yield(name, it) {
			return
		}
	}
}

// Names returns a snapshot of all registered names, used by the
// fuzzy-suggestion helper and by tests.
func (s CommandSpec) Names() []string {
	names := make([]string, 0, len(s.items))
	for name := range s.items {
		names = append(names, name)
	}
	return names
}

// Builder accumulates (name, descriptor) pairs before freezing them into a
// CommandSpec via Build. A Builder is not safe for concurrent use.
type Builder struct {
	items map[string]Item
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{items: make(map[string]Item)}
}

// Cmd registers a command descriptor under name, overwriting any previous
// registration for the same name.
func (b *Builder) Cmd(name string, shape ArgShape, alias string) *Builder {
	b.items[name] = Item{Kind: ItemCommand, Cmd: CmdShape{Args: shape, Alias: alias}}
	return b
}

// Env registers an environment descriptor under name.
func (b *Builder) Env(name string, pattern ArgPattern, feature ContextFeature, alias string) *Builder {
	b.items[name] = Item{Kind: ItemEnvironment, Env: EnvShape{Args: pattern, Context: feature, Alias: alias}}
	return b
}

// Symbol registers a zero-argument command, i.e. one processed as a
// variable in Typst (e.g. \alpha).
func (b *Builder) Symbol(name, alias string) *Builder {
	return b.Cmd(name, Right(NoArgs), alias)
}

// FixedCmd registers a command with exactly n trailing term arguments.
func (b *Builder) FixedCmd(name string, n uint8, alias string) *Builder {
	return b.Cmd(name, Right(FixedLen(n)), alias)
}

// GreedyCmd registers a command that consumes arguments greedily.
func (b *Builder) GreedyCmd(name, alias string) *Builder {
	return b.Cmd(name, Right(Greedy), alias)
}

// GlobCmd registers a command matched by a glob pattern over {t,b,p}.
func (b *Builder) GlobCmd(name, pattern, alias string) *Builder {
	return b.Cmd(name, Right(Glob(pattern)), alias)
}

// Left1Cmd registers a left-associative command (e.g. \limits).
func (b *Builder) Left1Cmd(name, alias string) *Builder {
	return b.Cmd(name, Left1, alias)
}

// InfixCmd registers an infix operator command (e.g. \over).
func (b *Builder) InfixCmd(name, alias string) *Builder {
	return b.Cmd(name, InfixGreedy, alias)
}

// MatrixEnv registers a matrix-like environment.
func (b *Builder) MatrixEnv(name, alias string) *Builder {
	return b.Env(name, NoArgs, FeatureMatrix, alias)
}

// NormalEnv registers an environment with no special context feature.
func (b *Builder) NormalEnv(name, alias string) *Builder {
	return b.Env(name, NoArgs, FeatureNone, alias)
}

// Build freezes the builder into a CommandSpec. The Builder remains usable
// afterwards but further mutation does not affect already-built specs,
// since Build takes a defensive copy of the underlying map.
func (b *Builder) Build() CommandSpec {
	items := make(map[string]Item, len(b.items))
	for k, v := range b.items {
		items[k] = v
	}
	return CommandSpec{items: items}
}
