// Command dremelcat prints the assembly plan built for a schema: a
// table of the schema's leaves, then for each leaf state a table of its
// next state and next level per repetition level, followed by its
// defined and undefined case pools. It exists
// purely for introspection (spec.md §6), grounded on the teacher's
// cmd/ptools "cat" subcommand shape, rewritten over the standard
// library's flag package rather than the teacher's own cli package
// (github.com/segmentio/cli is absent from this module's go.mod).
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"

	"github.com/canelmas/parquet-mr/columnio"
	"github.com/canelmas/parquet-mr/dremel"
)

func main() {
	schemaName := flag.String("schema", "sample", "built-in sample schema to print a plan for (sample|nested)")
	flag.Parse()

	schema, err := sampleSchema(*schemaName)
	if err != nil {
		fmt.Fprintln(os.Stderr, "dremelcat:", err)
		os.Exit(1)
	}

	builder := columnio.NewBuilder(schema)
	plan := dremel.NewPlan(schema.LeafInterfaces(), builder.ColumnReaders())

	printLeaves(schema)
	for i := 0; i < plan.StateCount(); i++ {
		printState(plan, i)
	}
}

func printLeaves(schema *columnio.Schema) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"State", "Field Path", "Max Def", "Max Rep", "Kind"})
	for i, leaf := range schema.Leaves() {
		table.Append([]string{
			fmt.Sprint(i),
			fmt.Sprint(leaf.FieldPath()),
			fmt.Sprint(leaf.MaxDefinitionLevel()),
			fmt.Sprint(leaf.MaxRepetitionLevel()),
			leaf.PrimitiveKind().String(),
		})
	}
	table.Render()
}

func printState(plan *dremel.Plan, id int) {
	s := plan.State(id)

	fmt.Printf("\nstate %d (%v)\n", id, s.FieldPath())
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"r", "nextState", "nextLevel"})
	for r := 0; r <= s.MaxRepetitionLevel(); r++ {
		next := plan.NextReaderID(id, r)
		nextLabel := fmt.Sprint(next)
		if next == plan.SinkStateID() {
			nextLabel = "sink"
		}
		table.Append([]string{fmt.Sprint(r), nextLabel, fmt.Sprint(plan.NextLevel(id, r))})
	}
	table.Render()

	fmt.Println("defined cases:")
	printCases(s.DefinedCases(), plan)
	fmt.Println("undefined cases:")
	printCases(s.UndefinedCases(), plan)
}

func printCases(cases []dremel.Case, plan *dremel.Plan) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"id", "startLevel", "depth", "nextLevel", "nextStateID"})
	for _, c := range cases {
		nextID := fmt.Sprint(c.NextStateID())
		if c.NextStateID() == plan.SinkStateID() {
			nextID = "sink"
		}
		table.Append([]string{
			fmt.Sprint(c.ID()),
			fmt.Sprint(c.StartLevel()),
			fmt.Sprint(c.Depth()),
			fmt.Sprint(c.NextLevel()),
			nextID,
		})
	}
	table.Render()
}
