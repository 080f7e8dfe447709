package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "1.0.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the current version of the odyssey CLI.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("odyssey version %s\n", version)
		fmt.Println("A paper-trading terminal for learning the markets")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
