package actions

import (
	"github.com/ArtCorp/exprdag/pkg/column"
	"github.com/ArtCorp/exprdag/pkg/dagerr"
	"github.com/ArtCorp/exprdag/pkg/function"
	"github.com/ArtCorp/exprdag/pkg/types"
)

// DAG is the Action DAG described in §4.A: a set of nodes indexed by name,
// plus an ordered output list naming which nodes are the program's final
// result columns. Grounded on the teacher's compute.Exprs slice + a
// name->index lookup built ad hoc in binder code; here the index is a
// first-class part of the structure since the builder needs it for every
// add* call's DUPLICATE_COLUMN / can_replace check.
type DAG struct {
	nodes   []*Node
	byName  map[string]*Node
	outputs []string
}

func NewDAG() *DAG {
	return &DAG{byName: map[string]*Node{}}
}

func (d *DAG) Node(name string) (*Node, bool) {
	n, ok := d.byName[name]
	return n, ok
}

func (d *DAG) Nodes() []*Node { return d.nodes }

func (d *DAG) register(n *Node) {
	d.nodes = append(d.nodes, n)
	d.byName[n.Name] = n
}

// AdoptNode registers an already-built node directly, bypassing the add*
// builders. Used by pkg/chain's split-before-array-join pass, which needs
// to share or lightly re-wire existing Node values between a DAG and its
// prefix/suffix halves instead of re-deriving them (which would re-run
// constant folding and could diverge from the original semantics).
func (d *DAG) AdoptNode(n *Node) error {
	if _, exists := d.byName[n.Name]; exists {
		return dagerr.New(dagerr.DuplicateColumn, "node %q already exists in DAG", n.Name)
	}
	d.register(n)
	return nil
}

// AddInput declares a node reading a named column out of the incoming
// block, per §2's INPUT kind.
func (d *DAG) AddInput(name string, typ types.LType) (*Node, error) {
	if _, exists := d.byName[name]; exists {
		return nil, dagerr.New(dagerr.DuplicateColumn, "input %q already exists in DAG", name)
	}
	n := &Node{Kind: Input, Name: name, ResultType: typ}
	d.register(n)
	return n, nil
}

// AddColumn declares a COLUMN node: a literal, compile-time-known value
// with no children, always eligible for constant folding by its parents.
func (d *DAG) AddColumn(name string, col column.Column) (*Node, error) {
	if _, exists := d.byName[name]; exists {
		return nil, dagerr.New(dagerr.DuplicateColumn, "column %q already exists in DAG", name)
	}
	n := &Node{
		Kind:                 ColumnConst,
		Name:                 name,
		ResultType:           col.Type(),
		Column:               col,
		AllowConstantFolding: true,
	}
	d.register(n)
	return n, nil
}

// AddAlias declares an ALIAS node over child under name, per §4.A's
// addAlias(source_name, new_name, can_replace) builder. canReplace is the
// caller's own choice, not inferred from any property of an existing
// node: if name is already taken and canReplace is false, the call fails
// with DUPLICATE_COLUMN; if canReplace is true, the previous holder of
// name is displaced — its RenamingParent is set to the new node (marking
// it dead per invariant 6) rather than being removed from the DAG, so it
// survives pruning if something still reaches it as a child.
func (d *DAG) AddAlias(name string, child *Node, canReplace bool) (*Node, error) {
	existing, exists := d.byName[name]
	if exists && !canReplace {
		return nil, dagerr.New(dagerr.DuplicateColumn, "alias %q already exists in DAG and cannot be replaced", name)
	}
	n := &Node{
		Kind:                 Alias,
		Name:                 name,
		ResultType:           child.ResultType,
		Children:             []*Node{child},
		Column:               child.Column,
		AllowConstantFolding: child.AllowConstantFolding,
		IsInputsRenaming:     true,
	}
	d.register(n)
	if exists {
		existing.RenamingParent = n
	}
	return n, nil
}

// isDisplaceableAlias reports whether an existing node occupying a name
// may be silently displaced by an unrelated builder call that needs that
// name for a synthesized result (addFunction's own duplicate-name path,
// distinct from addAlias's explicit can_replace argument): only a pure
// renaming ALIAS, contributing no computation of its own, qualifies.
func isDisplaceableAlias(n *Node) bool {
	return n.Kind == Alias && n.IsInputsRenaming
}

// AddFunction resolves fnName against reg for the children's result types,
// builds the FUNCTION node, and applies the constant-folding contract of
// §4.A: if every child carries a foldable constant column, the function is
// evaluated once at build time (dry_run=false, num_rows=1) and the result
// is attached to the node; if the overload is declared AlwaysConstant, the
// node is evaluated via a dry run even when children are not constant, and
// AllowConstantFolding is cleared so the executor knows to recompute it
// per block rather than treat the literal as reusable.
func (d *DAG) AddFunction(name string, reg *function.Registry, fnName string, children []*Node) (*Node, error) {
	if name == "" {
		name = SynthesizeName(fnName, children)
	}
	existingByName, existedBefore := d.byName[name]
	if existedBefore && !isDisplaceableAlias(existingByName) {
		return nil, dagerr.New(dagerr.DuplicateColumn, "function result %q already exists in DAG and cannot be replaced", name)
	}

	argTypes := make([]types.LType, len(children))
	for i, c := range children {
		argTypes[i] = c.ResultType
	}
	base, err := reg.Resolve(fnName, argTypes)
	if err != nil {
		return nil, dagerr.New(dagerr.UnknownIdentifier, "%v", err)
	}
	resultType, err := base.ResultType(argTypes)
	if err != nil {
		return nil, dagerr.New(dagerr.TypeMismatch, "%v", err)
	}

	n := &Node{
		Kind:         Function,
		Name:         name,
		ResultType:   resultType,
		Children:     children,
		FunctionName: fnName,
		FunctionBase: base,
	}

	allConst := base.IsSuitableForConstantFolding()
	for _, c := range children {
		if !c.IsConstant() {
			allConst = false
			break
		}
	}

	switch {
	case allConst:
		col, err := evalOnce(base, children, resultType, false)
		if err != nil {
			return nil, err
		}
		n.Column = col
		n.AllowConstantFolding = true
	case base.AlwaysConstant(len(children)):
		col, err := evalOnce(base, children, resultType, true)
		if err != nil {
			return nil, err
		}
		n.Column = col
		n.AllowConstantFolding = false
	}

	d.register(n)
	if existedBefore {
		existingByName.RenamingParent = n
	}
	return n, nil
}

func evalOnce(base function.Base, children []*Node, resultType types.LType, dryRun bool) (column.Column, error) {
	prep, err := base.Build(argTypesOf(children))
	if err != nil {
		return nil, dagerr.New(dagerr.LogicalError, "building prepared function: %v", err)
	}
	args := make([]column.Column, len(children))
	for i, c := range children {
		if c.Column != nil {
			args[i] = c.Column
			continue
		}
		// A dry-run AlwaysConstant evaluation (e.g. getTypeName) may be
		// asked to fold over a non-constant child; it still needs a
		// well-typed stand-in column to read Type() off of even though
		// its actual per-row values are never consulted under dry_run.
		args[i] = column.ConstFromValue(column.NewNull(c.ResultType), 1)
	}
	col, err := prep.Execute(args, resultType, 1, dryRun)
	if err != nil {
		return nil, dagerr.New(dagerr.LogicalError, "constant-folding %s: %v", base.Name(), err)
	}
	return column.ConstFromValue(col.GetValue(0), 1), nil
}

func argTypesOf(children []*Node) []types.LType {
	out := make([]types.LType, len(children))
	for i, c := range children {
		out[i] = c.ResultType
	}
	return out
}

// AddArrayJoin declares an ARRAY_JOIN node: child must be a LIST-typed
// node, and the node's result type is child's element type, per §2's
// ARRAY_JOIN kind and §4.C's row-cardinality-changing contract.
func (d *DAG) AddArrayJoin(name string, child *Node) (*Node, error) {
	if _, exists := d.byName[name]; exists {
		return nil, dagerr.New(dagerr.DuplicateColumn, "array join result %q already exists in DAG", name)
	}
	if !child.ResultType.IsList() {
		return nil, dagerr.New(dagerr.TypeMismatch, "array join requires a LIST argument, got %s", child.ResultType)
	}
	n := &Node{
		Kind:       ArrayJoin,
		Name:       name,
		ResultType: child.ResultType.ElementType(),
		Children:   []*Node{child},
	}
	d.register(n)
	return n, nil
}

// SetOutputs fixes the DAG's output column order, validating every name
// resolves to a known node.
func (d *DAG) SetOutputs(names []string) error {
	for _, name := range names {
		if _, ok := d.byName[name]; !ok {
			return dagerr.New(dagerr.UnknownIdentifier, "output %q not found in DAG", name)
		}
	}
	d.outputs = append([]string(nil), names...)
	return nil
}

func (d *DAG) Outputs() []*Node {
	out := make([]*Node, len(d.outputs))
	for i, name := range d.outputs {
		out[i] = d.byName[name]
	}
	return out
}

func (d *DAG) OutputNames() []string { return append([]string(nil), d.outputs...) }

// RemoveUnusedActions prunes every node not reachable (through Children)
// from requiredNames, per §4.A's "drop any action whose result is never
// consumed" pass, and clears RenamingParent on any surviving node whose
// parent was itself pruned, per §4.A's pruning rule. Liveness is tracked
// by node identity, not by name: a displaced node (invariant 6 — dead,
// RenamingParent != nil) can share its Name with the live node that
// superseded it, so keying on the string would mark both nodes live the
// moment either is required and defeat pruning of the dead one.
func (d *DAG) RemoveUnusedActions(requiredNames []string) error {
	keep := map[*Node]bool{}
	var mark func(n *Node)
	mark = func(n *Node) {
		if keep[n] {
			return
		}
		keep[n] = true
		for _, c := range n.Children {
			mark(c)
		}
	}
	for _, name := range requiredNames {
		n, ok := d.byName[name]
		if !ok {
			return dagerr.New(dagerr.UnknownIdentifier, "required column %q not found in DAG", name)
		}
		mark(n)
	}

	pruned := make([]*Node, 0, len(keep))
	for _, n := range d.nodes {
		if keep[n] {
			pruned = append(pruned, n)
			continue
		}
		if cur, ok := d.byName[n.Name]; ok && cur == n {
			delete(d.byName, n.Name)
		}
	}
	d.nodes = pruned

	for _, n := range pruned {
		if n.RenamingParent != nil && !keep[n.RenamingParent] {
			n.RenamingParent = nil
		}
	}

	var newOutputs []string
	for _, name := range d.outputs {
		if n, ok := d.byName[name]; ok && keep[n] {
			newOutputs = append(newOutputs, name)
		}
	}
	d.outputs = newOutputs
	return nil
}

// SynthesizeName builds the canonical `fn(arg1, arg2, ...)` display name
// for an unnamed function result, per §4.A's naming rule.
func SynthesizeName(fnName string, children []*Node) string {
	s := fnName + "("
	for i, c := range children {
		if i > 0 {
			s += ", "
		}
		s += c.Name
	}
	return s + ")"
}

// CheckColumnIsAlwaysFalse implements §6's membership-introspection
// method: a column is provably always false when its node is a constant
// boolean FALSE, or an in()/globalIn() FUNCTION node whose set argument is
// a constant, fully-materialized, empty List column.
func (d *DAG) CheckColumnIsAlwaysFalse(name string) bool {
	n, ok := d.byName[name]
	if !ok {
		return false
	}
	if n.Column != nil && n.AllowConstantFolding {
		v := n.Column.GetValue(0)
		if !v.IsNull && v.Typ.GetInternalType() == types.PhyBool {
			return !v.B
		}
	}
	if n.Kind == Function && (n.FunctionName == "in" || n.FunctionName == "globalIn") && len(n.Children) == 2 {
		setNode := n.Children[1]
		if setNode.Column != nil {
			return function.IsEmptySet(setNode.Column)
		}
	}
	return false
}
