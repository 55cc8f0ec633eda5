package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/facewire/facewire"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of facewire",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("facewire version %s\n", strings.TrimSpace(facewire.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
