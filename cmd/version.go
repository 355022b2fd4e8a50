package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var version string
var commitHash string
var buildDate string

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of hz",
	Long:  `All software has versions. This is hz's.`,
	Run: func(cmd *cobra.Command, args []string) {
		printHzVersion()
	},
}

func init() {
	RootCmd.AddCommand(versionCmd)
}

func printHzVersion() {
	fmt.Printf("hz Version: %s, %s/%s, BuildDate: %s, Commit: %s\n",
		version, runtime.GOOS, runtime.GOARCH, buildDate, commitHash)
}
