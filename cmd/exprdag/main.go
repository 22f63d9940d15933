// Copyright 2023-2024 daviszhen
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ArtCorp/exprdag/pkg/actions"
	"github.com/ArtCorp/exprdag/pkg/column"
	"github.com/ArtCorp/exprdag/pkg/exec"
	"github.com/ArtCorp/exprdag/pkg/function"
	"github.com/ArtCorp/exprdag/pkg/program"
	"github.com/ArtCorp/exprdag/pkg/settings"
	"github.com/ArtCorp/exprdag/pkg/types"
)

var cfgPath string

func main() {
	root := &cobra.Command{
		Use:   "exprdag",
		Short: "build, explain and run a sample expression execution DAG",
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to a settings toml file")
	root.AddCommand(explainCmd(), runCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// demoDAG builds a small fixed DAG: sum = plus(x, y), label = upper("row").
// Good enough to exercise build, constant folding, linearization and
// execution without needing a real query frontend wired in.
func demoDAG() (*actions.DAG, error) {
	reg := function.NewDefaultRegistry()
	d := actions.NewDAG()
	x, err := d.AddInput("x", types.BigInt())
	if err != nil {
		return nil, err
	}
	y, err := d.AddInput("y", types.BigInt())
	if err != nil {
		return nil, err
	}
	if _, err := d.AddFunction("sum", reg, "plus", []*actions.Node{x, y}); err != nil {
		return nil, err
	}
	lit, err := d.AddColumn("row_literal", column.NewConst(types.Varchar(), "row", false, 1))
	if err != nil {
		return nil, err
	}
	if _, err := d.AddFunction("label", reg, "upper", []*actions.Node{lit}); err != nil {
		return nil, err
	}
	if err := d.SetOutputs([]string{"sum", "label"}); err != nil {
		return nil, err
	}
	return d, nil
}

func explainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "explain",
		Short: "print the demo DAG's structure and its linearized program",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := demoDAG()
			if err != nil {
				return err
			}
			d.PrintTree(os.Stdout)

			s, err := settings.Load(cfgPath)
			if err != nil {
				return err
			}
			p, err := program.Linearize(d, s.Limits())
			if err != nil {
				return err
			}
			fmt.Print(p.DumpActions())
			return nil
		},
	}
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "execute the demo DAG over a tiny inline block",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := demoDAG()
			if err != nil {
				return err
			}
			s, err := settings.Load(cfgPath)
			if err != nil {
				return err
			}
			p, err := program.Linearize(d, s.Limits())
			if err != nil {
				return err
			}

			in := exec.Block{
				"x": column.NewFlat[int64](types.BigInt(), []int64{1, 2, 3}, nil),
				"y": column.NewFlat[int64](types.BigInt(), []int64{10, 20, 30}, nil),
			}
			out, err := exec.NewExecutor(p).Execute(p, in, 3, true)
			if err != nil {
				return err
			}
			for _, name := range p.OutputNames {
				col := out[name]
				for i := 0; i < col.Size(); i++ {
					fmt.Printf("%s[%d] = %s\n", name, i, col.GetValue(i).String())
				}
			}
			return nil
		},
	}
}
