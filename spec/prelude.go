package spec

// BuildPrelude constructs the built-in command specification: a reasonably
// complete set of common LaTeX commands and environments, grounded in
// mitex-rs's own `preludes.rs` shape (see original_source/crates/mitex-spec)
// but authored directly against this package's Builder rather than ported
// line for line.
//
// This is exported (rather than folded only into Default) so that tooling
// and tests can start from the built-in set and extend it with
// project-specific commands before calling Builder.Build.
func BuildPrelude() *Builder {
	b := NewBuilder()

	greekSymbols(b)
	operatorSymbols(b)
	accentCommands(b)
	structuralCommands(b)
	textCommands(b)
	mathEnvironments(b)
	listEnvironments(b)
	documentCommands(b)

	return b
}

func greekSymbols(b *Builder) {
	for _, name := range []string{
		"alpha", "beta", "gamma", "delta", "epsilon", "varepsilon", "zeta",
		"eta", "theta", "vartheta", "iota", "kappa", "lambda", "mu", "nu",
		"xi", "pi", "varpi", "rho", "varrho", "sigma", "varsigma", "tau",
		"upsilon", "phi", "varphi", "chi", "psi", "omega",
		"Gamma", "Delta", "Theta", "Lambda", "Xi", "Pi", "Sigma", "Upsilon",
		"Phi", "Psi", "Omega",
	} {
		b.Symbol(name, "")
	}
}

func operatorSymbols(b *Builder) {
	b.Symbol("sum", "")
	b.Symbol("prod", "product")
	b.Symbol("coprod", "coproduct")
	b.Symbol("int", "integral")
	b.Symbol("oint", "integral.cont")
	b.Symbol("lim", "")
	b.Symbol("limsup", "")
	b.Symbol("liminf", "")
	b.Symbol("infty", "infinity")
	b.Symbol("partial", "diff")
	b.Symbol("nabla", "")
	b.Symbol("cdot", "dot.op")
	b.Symbol("cdots", "dots.h.c")
	b.Symbol("ldots", "dots.h")
	b.Symbol("vdots", "dots.v")
	b.Symbol("ddots", "dots.down")
	b.Symbol("pm", "plus.minus")
	b.Symbol("mp", "minus.plus")
	b.Symbol("times", "")
	b.Symbol("div", "")
	b.Symbol("leq", "lt.eq")
	b.Symbol("geq", "gt.eq")
	b.Symbol("neq", "eq.not")
	b.Symbol("approx", "approx")
	b.Symbol("equiv", "equiv")
	b.Symbol("sim", "tilde.op")
	b.Symbol("propto", "prop")
	b.Symbol("subset", "")
	b.Symbol("supset", "")
	b.Symbol("subseteq", "subset.eq")
	b.Symbol("supseteq", "supset.eq")
	b.Symbol("cup", "union")
	b.Symbol("cap", "sect")
	b.Symbol("emptyset", "nothing")
	b.Symbol("in", "")
	b.Symbol("notin", "in.not")
	b.Symbol("forall", "")
	b.Symbol("exists", "")
	b.Symbol("rightarrow", "arrow.r")
	b.Symbol("Rightarrow", "arrow.r.double")
	b.Symbol("leftarrow", "arrow.l")
	b.Symbol("Leftarrow", "arrow.l.double")
	b.Symbol("leftrightarrow", "arrow.l.r")
	b.Symbol("to", "arrow.r")
	b.Symbol("mapsto", "arrow.r.bar")
	b.Symbol("perp", "perp")
	b.Symbol("parallel", "parallel")
	b.Symbol("wedge", "and")
	b.Symbol("vee", "or")
	b.Symbol("neg", "not")
	b.Symbol("aleph", "")
	b.Symbol("hbar", "")
	b.Symbol("ell", "")
	b.Symbol("Re", "Re")
	b.Symbol("Im", "Im")

	b.Left1Cmd("limits", "limits")
	b.InfixCmd("over", "over")
	b.GreedyCmd("displaystyle", "display")
	b.GreedyCmd("textstyle", "inline")
	b.GreedyCmd("scriptstyle", "script")
}

func accentCommands(b *Builder) {
	for name, alias := range map[string]string{
		"hat": "", "bar": "", "vec": "", "dot": "", "ddot": "", "tilde": "",
		"overline": "", "underline": "", "overbrace": "", "underbrace": "",
		"widehat": "hat", "widetilde": "tilde",
	} {
		b.FixedCmd(name, 1, alias)
	}
}

func structuralCommands(b *Builder) {
	b.FixedCmd("frac", 2, "")
	b.FixedCmd("binom", 2, "binom")
	b.GlobCmd("sqrt", "{,b}t", "")
	b.FixedCmd("mathbb", 1, "bb")
	b.FixedCmd("mathcal", 1, "cal")
	b.FixedCmd("mathfrak", 1, "frak")
	b.FixedCmd("mathrm", 1, "upright")
	b.FixedCmd("mathit", 1, "italic")
	b.FixedCmd("mathsf", 1, "sans")
	b.FixedCmd("mathtt", 1, "mono")
	b.FixedCmd("operatorname", 1, "op")
	b.FixedCmd("substack", 1, "")
	b.FixedCmd("label", 1, "")
	b.Cmd("item", Right(NoArgs), "")
}

func textCommands(b *Builder) {
	b.FixedCmd("textbf", 1, "strong")
	b.FixedCmd("textit", 1, "emph")
	b.FixedCmd("emph", 1, "emph")
	b.FixedCmd("underline", 1, "underline")
	b.FixedCmd("footnote", 1, "footnote")
	b.FixedCmd("cite", 1, "cite")
	b.FixedCmd("ref", 1, "ref")
	b.FixedCmd("text", 1, "#textmath")
}

func mathEnvironments(b *Builder) {
	for _, name := range []string{"equation", "align", "gather", "multline"} {
		b.Env(name, NoArgs, FeatureMath, "")
	}
	b.MatrixEnv("matrix", "")
	for _, name := range []string{"pmatrix", "bmatrix", "vmatrix", "Vmatrix", "smallmatrix"} {
		b.MatrixEnv(name, "mat")
	}
	b.Env("cases", NoArgs, FeatureCases, "")
	b.Env("aligned", NoArgs, FeatureMath, "")
}

func listEnvironments(b *Builder) {
	b.Env("itemize", NoArgs, FeatureItemize, "list")
	b.Env("enumerate", NoArgs, FeatureEnumerate, "enum")
	b.Env("figure", NoArgs, FeatureFigure, "figure")
	b.Env("table", NoArgs, FeatureTable, "table")
	b.Env("tabular", NoArgs, FeatureTable, "table")
}

func documentCommands(b *Builder) {
	b.FixedCmd("documentclass", 1, "")
	b.FixedCmd("usepackage", 1, "")
	b.FixedCmd("title", 1, "")
	b.FixedCmd("author", 1, "")
	b.FixedCmd("date", 1, "")
	b.Cmd("maketitle", Right(NoArgs), "")
	b.FixedCmd("section", 1, "heading")
	b.FixedCmd("subsection", 1, "heading")
	b.FixedCmd("subsubsection", 1, "heading")
	b.FixedCmd("chapter", 1, "heading")
	b.NormalEnv("document", "")
	b.NormalEnv("center", "align")
	b.NormalEnv("verbatim", "raw")
}
