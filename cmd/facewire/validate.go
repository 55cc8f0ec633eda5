package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/facewire/facewire"
	"github.com/facewire/facewire/pkg/graph"
)

var validateCmd = &cobra.Command{
	Use:   "validate <plan-file>",
	Short: "Validate a serialized pipeline plan",
	Long:  `Loads a plan file, re-types node options against the stage registry and re-runs the full structural validation (references, types, cycles).`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		plan, err := facewire.LoadPlan(args[0])
		if err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			for _, be := range graph.BuildErrors(err) {
				fmt.Printf("  - %v\n", be)
			}
			os.Exit(1)
		}
		fmt.Printf("Plan %q is valid! ✅ (%d nodes)\n", plan.Name, len(plan.Nodes))
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
