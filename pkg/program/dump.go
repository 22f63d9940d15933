package program

import (
	"fmt"
	"strings"

	"github.com/ArtCorp/exprdag/pkg/actions"
)

// DumpActions renders §6's EXPLAIN grammar, one line per action in
// execution order:
//
//	COLUMN <name> <type> <column-kind>
//	ALIAS <name> = <src>[ (removing)]
//	FUNCTION <name> [compiled] <type> = <fn>(<arg1>, <arg2>, …)
//	ARRAY JOIN <src> -> <name>
//
// §6 gives no line shape for INPUT, so INPUT actions are skipped.
func (p *Program) DumpActions() string {
	var b strings.Builder
	for _, a := range p.Actions {
		node := a.Node
		switch node.Kind {
		case actions.Input:
			continue

		case actions.ColumnConst:
			fmt.Fprintf(&b, "COLUMN %s %s %s\n", node.Name, node.ResultType, columnKind(node))

		case actions.Alias:
			src := node.Children[0].Name
			if a.RemoveInputSlots[0] {
				fmt.Fprintf(&b, "ALIAS %s = %s (removing)\n", node.Name, src)
			} else {
				fmt.Fprintf(&b, "ALIAS %s = %s\n", node.Name, src)
			}

		case actions.Function:
			args := make([]string, len(node.Children))
			for i, c := range node.Children {
				args[i] = c.Name
			}
			tokens := []string{"FUNCTION", node.Name}
			if node.IsFunctionCompiled {
				tokens = append(tokens, "compiled")
			}
			tokens = append(tokens, node.ResultType.String(), "=", fmt.Sprintf("%s(%s)", node.FunctionName, strings.Join(args, ", ")))
			fmt.Fprintf(&b, "%s\n", strings.Join(tokens, " "))

		case actions.ArrayJoin:
			fmt.Fprintf(&b, "ARRAY JOIN %s -> %s\n", node.Children[0].Name, node.Name)
		}
	}
	return b.String()
}

// columnKind names the COLUMN line's trailing tag: "const" for a
// constant-folded value (the only materialization a COLUMN or a folded
// FUNCTION node carries), "full" otherwise.
func columnKind(n *actions.Node) string {
	if n.Column != nil && n.Column.IsConst() {
		return "const"
	}
	return "full"
}
