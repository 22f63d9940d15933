package chain

import (
	"github.com/ArtCorp/exprdag/pkg/actions"
	"github.com/ArtCorp/exprdag/pkg/dagerr"
	"github.com/ArtCorp/exprdag/pkg/types"
)

// Finalize runs the right-to-left pass of §4.D: starting from the names
// the whole chain must ultimately produce, walk the steps back to front,
// pruning each step's DAG to only the columns still needed by anything
// after it (via actions.DAG.RemoveUnusedActions), and recording in each
// step's additionalInput the columns a later step needs that this step
// neither produces nor consumes — the set the left-to-right ProjectInputs
// pass has to wire back in as plain passthroughs. It returns the columns
// required from the chain's very first input block.
func (c *Chain) Finalize(requiredOutput []string) ([]string, error) {
	required := toSet(requiredOutput)

	for i := len(c.Steps) - 1; i >= 0; i-- {
		step := c.Steps[i]
		step.additionalInput = nil

		switch step.Kind {
		case ExpressionStep, ArrayJoinStep:
			producible := map[string]bool{}
			for _, n := range step.DAG.Nodes() {
				producible[n.Name] = true
			}

			var stepOutputs []string
			passthrough := map[string]bool{}
			for name := range required {
				if producible[name] {
					stepOutputs = append(stepOutputs, name)
				} else {
					passthrough[name] = true
				}
			}
			if step.Kind == ArrayJoinStep && !producible[step.ArrayJoinColumn] {
				return nil, dagerr.New(dagerr.UnknownIdentifier, "array join step: %q not found in its own DAG", step.ArrayJoinColumn)
			}
			if step.Kind == ArrayJoinStep && !contains(stepOutputs, step.ArrayJoinColumn) {
				stepOutputs = append(stepOutputs, step.ArrayJoinColumn)
			}

			if len(stepOutputs) > 0 {
				if err := step.DAG.RemoveUnusedActions(stepOutputs); err != nil {
					return nil, err
				}
				if err := step.DAG.SetOutputs(stepOutputs); err != nil {
					return nil, err
				}
			}

			next := map[string]bool{}
			for _, n := range step.DAG.Nodes() {
				if n.Kind == actions.Input {
					next[n.Name] = true
				}
			}
			for name := range passthrough {
				next[name] = true
				step.additionalInput = append(step.additionalInput, name)
			}
			required = next

		case JoinStep:
			produced := map[string]bool{}
			for _, name := range step.JoinOutputColumns {
				produced[name] = true
			}
			next := map[string]bool{}
			for name := range required {
				if produced[name] {
					continue
				}
				next[name] = true
				step.additionalInput = append(step.additionalInput, name)
			}
			required = next
		}
	}

	return setToSlice(required), nil
}

// ProjectInputs runs the left-to-right pass of §4.D: for every column a
// step recorded in additionalInput during Finalize, add an explicit INPUT
// node to that step's DAG (if one isn't already there) and extend the
// step's outputs to include it, so the column survives unchanged into the
// next step's input block. initialTypes supplies the type of every column
// the chain's very first block carries.
func (c *Chain) ProjectInputs(initialTypes map[string]types.LType) error {
	known := map[string]types.LType{}
	for k, v := range initialTypes {
		known[k] = v
	}

	for _, step := range c.Steps {
		switch step.Kind {
		case ExpressionStep, ArrayJoinStep:
			for _, name := range step.additionalInput {
				if _, exists := step.DAG.Node(name); exists {
					continue
				}
				typ, ok := known[name]
				if !ok {
					return dagerr.New(dagerr.LogicalError, "project input: unknown type for passthrough column %q", name)
				}
				if _, err := step.DAG.AddInput(name, typ); err != nil {
					return err
				}
			}
			outputs := dedupe(append(step.DAG.OutputNames(), step.additionalInput...))
			if err := step.DAG.SetOutputs(outputs); err != nil {
				return err
			}
			for _, n := range step.DAG.Outputs() {
				known[n.Name] = n.ResultType
			}

		case JoinStep:
			for _, name := range step.JoinOutputColumns {
				known[name] = step.joinColumnTypes[name]
			}
		}
	}
	return nil
}

func toSet(names []string) map[string]bool {
	s := map[string]bool{}
	for _, n := range names {
		s[n] = true
	}
	return s
}

func setToSlice(s map[string]bool) []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	return out
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

func dedupe(names []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}
