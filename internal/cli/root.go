package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "molfuse",
	Short: "Fuzzy-Bayesian evidence fusion for molecular identity",
	Long:  "Molfuse fuses multi-source molecular evidence through a fuzzy-Bayesian network and reports enhanced confidence scores. Single Go binary.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(fuseCmd)
	rootCmd.AddCommand(batchesCmd)
}
