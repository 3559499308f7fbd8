package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is stamped into the device descriptor and the User-Agent header.
// Release builds override it with -ldflags "-X main.version=...".
var version = "0.4.1"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the regform version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "regform %s\n", version)
		return err
	},
}
