package actions

import (
	"fmt"
	"io"

	"github.com/xlab/treeprint"
)

// PrintTree writes a structural dump of the DAG's output nodes, one
// treeprint branch per node recursing through Children, distinct from the
// linearized one-line-per-action dump the program package produces: this
// one shows the DAG as built, before slot allocation collapses it into a
// sequence.
func (d *DAG) PrintTree(w io.Writer) {
	root := treeprint.New()
	seen := map[string]bool{}
	for _, n := range d.Outputs() {
		addBranch(root, n, seen)
	}
	fmt.Fprint(w, root.String())
}

func addBranch(parent treeprint.Tree, n *Node, seen map[string]bool) {
	label := n.String()
	if n.Column != nil && n.AllowConstantFolding {
		label += fmt.Sprintf(" = %s", n.Column.GetValue(0).String())
	}
	if seen[n.Name] {
		parent.AddNode(label + " (ref)")
		return
	}
	seen[n.Name] = true
	branch := parent.AddBranch(label)
	for _, c := range n.Children {
		addBranch(branch, c, seen)
	}
}
