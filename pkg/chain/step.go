// Package chain implements the step chain (§4.D / Component D): an
// ordered sequence of expression/array-join/join steps, each wrapping an
// Action DAG, with a right-to-left finalize pass that prunes every step to
// only the columns still needed downstream, and a left-to-right pass that
// reinserts passthrough nodes for any column a later step needs but an
// earlier step's own outputs don't carry. Grounded on the teacher's
// multi-stage plan.Builder pipeline (bind -> project -> filter -> ...),
// reshaped into the explicit step-kind union §4.D names.
package chain

import (
	"github.com/ArtCorp/exprdag/pkg/actions"
	"github.com/ArtCorp/exprdag/pkg/dagerr"
	"github.com/ArtCorp/exprdag/pkg/types"
)

// StepKind is one of the three step kinds §4.D names.
type StepKind int

const (
	ExpressionStep StepKind = iota
	ArrayJoinStep
	JoinStep
)

func (k StepKind) String() string {
	switch k {
	case ExpressionStep:
		return "EXPRESSION"
	case ArrayJoinStep:
		return "ARRAY_JOIN"
	case JoinStep:
		return "JOIN"
	default:
		return "UNKNOWN"
	}
}

// Step is one stage of the chain. ExpressionStep/ArrayJoinStep carry a
// DAG; JoinStep instead carries the declared set of columns the join side
// contributes, since an actual join engine is out of scope (§1's
// non-goals) — it exists here only so Finalize's right-to-left column
// propagation has a defined behavior when a chain includes one.
type Step struct {
	Kind StepKind
	DAG  *actions.DAG

	// ArrayJoinColumn names the ARRAY_JOIN node an ArrayJoinStep pivots
	// on; empty for the other kinds.
	ArrayJoinColumn string

	// JoinOutputColumns is the set of columns a JoinStep is declared to
	// contribute, used only for JoinStep.
	JoinOutputColumns []string
	joinColumnTypes   map[string]types.LType

	// additionalInput is filled in by Finalize and consumed by the
	// project-input pass: columns this step must pass through unchanged
	// because a later step needs them but this step's own DAG does not
	// produce or consume them.
	additionalInput []string
}

// NewExpressionStep wraps dag as a plain expression-evaluation stage.
func NewExpressionStep(dag *actions.DAG) *Step {
	return &Step{Kind: ExpressionStep, DAG: dag}
}

// NewArrayJoinStep wraps dag as an array-join stage pivoting on
// arrayJoinColumn, which must name an ARRAY_JOIN node already present in
// dag. Neither DAG returned by SplitBeforeArrayJoin holds such a node: its
// suffix carries the array-join result as an INPUT placeholder.
func NewArrayJoinStep(dag *actions.DAG, arrayJoinColumn string) (*Step, error) {
	n, ok := dag.Node(arrayJoinColumn)
	if !ok || n.Kind != actions.ArrayJoin {
		return nil, dagerr.New(dagerr.UnknownIdentifier, "array join step: %q is not an ARRAY_JOIN node", arrayJoinColumn)
	}
	return &Step{Kind: ArrayJoinStep, DAG: dag, ArrayJoinColumn: arrayJoinColumn}, nil
}

// NewJoinStep declares a join stage contributing outputColumns.
func NewJoinStep(outputColumns []string, types_ map[string]types.LType) *Step {
	return &Step{Kind: JoinStep, JoinOutputColumns: outputColumns, joinColumnTypes: types_}
}

// Chain is the ordered list of steps a query plan compiles each row batch
// through.
type Chain struct {
	Steps []*Step
}

func NewChain() *Chain { return &Chain{} }

func (c *Chain) Add(s *Step) { c.Steps = append(c.Steps, s) }
