package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhirendraxd/CyberSentry-sub000/internal/version"
)

var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.String())
	},
}
