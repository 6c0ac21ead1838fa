package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gocomics/panelflow/detector"
)

// configCmd represents the config command.
var configCmd = &cobra.Command{
	Use:   "config FILE",
	Short: "create a pipeline config file",
	Long: `Create a pipeline config file in YAML format, prefilled with
conservative default values.

If FILE is not provided, 'panelflow.yml' is used.`,
	Run: func(cmd *cobra.Command, args []string) {
		path := "panelflow.yml"
		if len(args) >= 1 {
			path = args[0]
		}
		ok, err := confirmIfExists(path, fmt.Sprintf("file %s already exists, overwrite? [y/N]", path))
		if !ok {
			if err == nil {
				fmt.Println("aborted by user...")
			} else {
				fmt.Println("aborted,", err)
			}
			return
		}
		check(marshalYAMLFile(path, detector.DefaultConfig()))
		fmt.Printf("pipeline config written to '%s'\n", path)
	},
}

func init() {
	RootCmd.AddCommand(configCmd)
}
