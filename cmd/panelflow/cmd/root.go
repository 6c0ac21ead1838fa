package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "panelflow",
	Short: "detect comic panels and reading order",
	Long: `panelflow is the command-line application for the panel detection
pipeline:
	- detect panels and reading order across a CBZ or a directory of page
	  images (a PDF opens for its page count only; its pages cannot be
	  decoded),
	- save results to a BookData JSON file (merging any existing user
	  overrides),
	- emit a YAML pipeline config prefilled with defaults,
	- serve a local inspection web server over a detected book.`,
}

// Execute adds all child commands to RootCmd and runs it. Called once by
// main.main.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
