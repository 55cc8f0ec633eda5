package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/facewire/facewire"
	"github.com/facewire/facewire/pkg/landmarker"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Assemble a face landmark pipeline plan",
	Long:  `Builds the single-region (or, with --multi, the multi-region) face landmark pipeline from a model manifest and writes the serialized plan.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runBuild(cmd); err != nil {
			fmt.Printf("Build failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().String("model", "", "Path to the model manifest (required)")
	buildCmd.Flags().Float64("min-confidence", 0.5, "Minimum detection confidence in [0, 1]")
	buildCmd.Flags().String("acceleration", string(landmarker.BackendCPU), "Acceleration backend (cpu, gpu)")
	buildCmd.Flags().Bool("multi", false, "Build the multi-region pipeline")
	buildCmd.Flags().StringP("out", "o", "", "Output file (default: stdout)")
	buildCmd.MarkFlagRequired("model")
}

func runBuild(cmd *cobra.Command) error {
	logger := newLogger(cmd)

	manifestPath, _ := cmd.Flags().GetString("model")
	minConfidence, _ := cmd.Flags().GetFloat64("min-confidence")
	acceleration, _ := cmd.Flags().GetString("acceleration")
	multi, _ := cmd.Flags().GetBool("multi")
	out, _ := cmd.Flags().GetString("out")

	manifest, err := facewire.LoadModel(manifestPath)
	if err != nil {
		return err
	}
	opts := facewire.Options{
		MinDetectionConfidence: minConfidence,
		Model:                  manifest,
		Acceleration:           landmarker.Backend(acceleration),
	}

	build := facewire.BuildSingleFaceLandmarks
	if multi {
		build = facewire.BuildMultiFaceLandmarks
	}
	plan, err := build(opts)
	if err != nil {
		return err
	}
	logger.Debug("plan assembled", "graph", plan.Name, "nodes", len(plan.Nodes))

	data, err := plan.Encode()
	if err != nil {
		return err
	}
	if out == "" {
		fmt.Print(string(data))
		return nil
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return err
	}
	logger.Info("plan written", "path", out, "graph", plan.Name)
	return nil
}
