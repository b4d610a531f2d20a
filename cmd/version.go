/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"io"

	"github.com/longkey1/chatbox/internal/version"
	"github.com/spf13/cobra"
)

var versionShort bool

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long: `Show the chatbox version, the commit it was built from, the build time
and the Go toolchain. With --short only the version number is printed,
which is handy in scripts.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printVersion(cmd.OutOrStdout(), versionShort)
	},
}

func printVersion(w io.Writer, short bool) error {
	if short {
		_, err := fmt.Fprintln(w, version.Short())
		return err
	}
	_, err := fmt.Fprintf(w, "chatbox\n%s\n", version.Info())
	return err
}

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().BoolVarP(&versionShort, "short", "s", false, "Show only the version number")
}
