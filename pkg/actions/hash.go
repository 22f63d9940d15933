package actions

import (
	"fmt"

	metro "github.com/dgryski/go-metro"
)

// ActionHash is the 128-bit structural digest used as a compiled-expression
// cache key (pkg/cache), grounded on the teacher's use of a fast
// non-cryptographic hash for lookup-table keys elsewhere in pkg/util, here
// applied to dgryski/go-metro since the old hash.go helper was removed
// along with the unsafe-pointer machinery it depended on.
type ActionHash struct {
	Lo, Hi uint64
}

func (h ActionHash) String() string { return fmt.Sprintf("%016x%016x", h.Hi, h.Lo) }

// Hash computes n's structural hash: (kind, result type, function name,
// constant value if any, and the hashes of its children in order). Two
// nodes with equal hashes are structurally interchangeable per Equal.
func Hash(n *Node) ActionHash {
	hi, lo := metro.Hash128([]byte(structuralSeed(n)), 0)
	return ActionHash{Lo: lo, Hi: hi}
}

func structuralSeed(n *Node) string {
	s := fmt.Sprintf("%d|%s|%s|", n.Kind, n.ResultType.String(), n.FunctionName)
	if n.Column != nil && n.AllowConstantFolding {
		s += "const:" + n.Column.GetValue(0).String() + "|"
	}
	for _, c := range n.Children {
		ch := Hash(c)
		s += ch.String() + ","
	}
	return s
}

// Equal reports whether a and b are structurally interchangeable: same
// kind, same result type, same function (for FUNCTION nodes), same
// constant value (for constant-folded nodes), and pairwise-equal children.
// Node names are not compared.
func Equal(a, b *Node) bool {
	if a.Kind != b.Kind || !a.ResultType.Equal(b.ResultType) {
		return false
	}
	switch a.Kind {
	case Function:
		if a.FunctionName != b.FunctionName {
			return false
		}
	case ColumnConst:
		if a.Column == nil || b.Column == nil {
			return a.Column == b.Column
		}
		if a.Column.GetValue(0).String() != b.Column.GetValue(0).String() {
			return false
		}
	}
	if a.IsConstant() != b.IsConstant() {
		return false
	}
	if a.IsConstant() && a.Column.GetValue(0).String() != b.Column.GetValue(0).String() {
		return false
	}
	if len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		if !Equal(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}
