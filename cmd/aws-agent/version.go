package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opsdesk/aws-agent/app"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the aws-agent version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", app.ServiceName, app.Version)
		},
	}
}
