package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/facewire/facewire/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "facewire",
	Short: "facewire assembles face landmark inference pipeline plans",
	Long:  `Facewire builds typed dataflow-graph plans for face landmark detection pipelines and provides tooling to validate, visualize and serve them.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging")
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	return logging.New(level)
}
