package clawkeep

import "github.com/spf13/cobra"

// Version is overridden at build time via -ldflags.
var Version = "development"

func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Println(Version)
		},
	}
}
