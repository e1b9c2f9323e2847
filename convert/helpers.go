package convert

import (
	"strings"

	"github.com/texconv/mitex/lexer"
	"github.com/texconv/mitex/parser"
)

func findChildKind(children []parser.Element, kind parser.NodeKind) *parser.Node {
	for _, el := range children {
		if el.Node != nil && el.Node.Kind == kind {
			return el.Node
		}
	}
	return nil
}

func childArgumentClauses(children []parser.Element) []*parser.Node {
	var out []*parser.Node
	for _, el := range children {
		if el.Node != nil && el.Node.Kind == parser.ArgumentClause {
			out = append(out, el.Node)
		}
	}
	return out
}

func firstCommandToken(n *parser.Node) (lexer.Token, bool) {
	for _, el := range n.Children {
		if el.Token != nil {
			return *el.Token, true
		}
	}
	return lexer.Token{}, false
}

func elementsText(els []parser.Element) string {
	var sb strings.Builder
	for _, e := range els {
		sb.WriteString(e.Text())
	}
	return sb.String()
}

// rawArgText extracts an argument's literal name text: strips the curly
// braces if the argument scanned as a brace group (the \label{foo} form),
// or returns the span as-is for a single-term argument (\label x).
func rawArgText(arg *parser.Node) string {
	if len(arg.Children) == 1 && arg.Children[0].Node != nil && arg.Children[0].Node.Kind == parser.Curly {
		return elementsText(stripBraces(arg.Children[0].Node.Children))
	}
	return arg.Text()
}

// splitEnvChildren separates an Env node's children into its own
// ArgumentClause arguments (which immediately follow Begin) and its body
// (everything up to End, exclusive).
func splitEnvChildren(children []parser.Element) (args []*parser.Node, body []parser.Element) {
	i := 1
	for i < len(children) {
		if children[i].Node != nil && children[i].Node.Kind == parser.ArgumentClause {
			args = append(args, children[i].Node)
			i++
			continue
		}
		break
	}
	end := len(children)
	if end > i && children[end-1].Node != nil && children[end-1].Node.Kind == parser.End {
		end--
	}
	return args, children[i:end]
}
