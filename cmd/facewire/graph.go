package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/facewire/facewire"
	presentation "github.com/facewire/facewire/internal/presentation/graph"
)

var graphCmd = &cobra.Command{
	Use:   "graph <plan-file>",
	Short: "Render a plan as a Mermaid flowchart",
	Long:  `Loads a plan file and prints a Mermaid flowchart of its dataflow topology, suitable for embedding in Markdown.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		plan, err := facewire.LoadPlan(args[0])
		if err != nil {
			fmt.Printf("Failed to load plan: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(presentation.GenerateMermaid(plan))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
