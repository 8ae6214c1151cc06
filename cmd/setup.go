package cmd

import (
	"github.com/spf13/cobra"

	"github.com/bnema/hidgeneric/internal/setup"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactively create the initial configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return setup.Run()
	},
}

func init() {
	rootCmd.AddCommand(setupCmd)
}
