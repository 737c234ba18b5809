package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yangpin97/cisco-client-portal/tool"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(tool.UserAgent())
	},
}
