// Package actions implements the Action DAG: the core's "what to compute"
// representation (§4.A), built from the columnar function registry and
// column primitives, consumed by the linearizer (pkg/program) to turn it
// into a runnable straight-line program. Grounded on the teacher's
// pkg/compute expression tree (Expr/ExprImpl with a Typ discriminant and
// Children), reshaped to the explicit five-kind DAG §9 names: INPUT,
// COLUMN, ALIAS, FUNCTION, ARRAY_JOIN.
package actions

import (
	"fmt"

	"github.com/huandu/go-clone"

	"github.com/ArtCorp/exprdag/pkg/column"
	"github.com/ArtCorp/exprdag/pkg/function"
	"github.com/ArtCorp/exprdag/pkg/types"
)

// Kind is one of the five closed node kinds named in §9.
type Kind int

const (
	Input Kind = iota
	ColumnConst
	Alias
	Function
	ArrayJoin
)

func (k Kind) String() string {
	switch k {
	case Input:
		return "INPUT"
	case ColumnConst:
		return "COLUMN"
	case Alias:
		return "ALIAS"
	case Function:
		return "FUNCTION"
	case ArrayJoin:
		return "ARRAY_JOIN"
	default:
		return "UNKNOWN"
	}
}

// Node is one vertex of the Action DAG. Every node carries a result type
// and, once constant-folded or built as a COLUMN node, a materialized
// Column holding its compile-time-known value.
type Node struct {
	Kind       Kind
	Name       string
	ResultType types.LType
	Children   []*Node

	// FunctionName/FunctionBase are only set on Function nodes.
	FunctionName string
	FunctionBase function.Base

	// Column is set on ColumnConst nodes, and on any node the builder was
	// able to constant-fold (§4.A's allow_constant_folding contract).
	Column Column

	// AllowConstantFolding is cleared once a node's value is known not to
	// be safely reusable as a constant (e.g. it is an always-constant
	// function of non-constant arguments, where §4.A says the column must
	// still be recomputed per block despite being structurally constant).
	AllowConstantFolding bool

	// IsInputsRenaming marks ALIAS nodes the linearizer is allowed to
	// resolve away as a pure rename of their one child.
	IsInputsRenaming bool

	// IsFunctionCompiled is bookkeeping for an optional JIT accelerator
	// (§1's "pluggable accelerator, not part of the core contract"); this
	// core never sets it, but the field is part of the node record per
	// §3's data model and is surfaced by the EXPLAIN dump's "[compiled]"
	// tag.
	IsFunctionCompiled bool

	// RenamingParent is the non-owning back-link §3/§9 describe: when a
	// later addAlias/addFunction call reuses this node's name with
	// can_replace=true, the displaced node's RenamingParent is set to the
	// node that superseded it. A node with RenamingParent != nil is dead
	// (invariant 6) — never a valid target for new output names, but
	// retained in the DAG's node list as long as a live node still
	// references it as a child, to preserve lineage for pruning.
	RenamingParent *Node
}

// Column is a type alias kept local to avoid a second import alias at
// every call site in this package.
type Column = column.Column

func (n *Node) String() string {
	return fmt.Sprintf("%s %s :: %s", n.Kind, n.Name, n.ResultType)
}

// IsConstant reports whether the node carries a compile-time-known value
// usable for constant folding by its parents.
func (n *Node) IsConstant() bool {
	return n.Column != nil && n.AllowConstantFolding
}

// IsDead reports invariant 6: a node whose RenamingParent is set has been
// superseded and must never resolve as a live output, though it may still
// be retained as another live node's child.
func (n *Node) IsDead() bool {
	return n.RenamingParent != nil
}

// Clone deep-copies n, including its materialized Column and the whole
// Children subtree, the way the teacher's Expr.copy() clones an expression
// tree before a caller mutates one copy independently of the original
// (e.g. the chain's split-before-array-join pass, or a planner rewrite
// rule that wants to try a variant without disturbing a cached DAG).
func (n *Node) Clone() *Node {
	return clone.Clone(n).(*Node)
}
