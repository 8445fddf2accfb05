package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doneflow/doneflow"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of doneflow",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("doneflow version %s\n", strings.TrimSpace(doneflow.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
