package main

import "github.com/spf13/cobra"

var rootCmd = &cobra.Command{
	Use:           "logdash",
	Short:         "Logdash is an operations dashboard for server logs, DB backups, and outbound mail.",
	SilenceErrors: true,
	SilenceUsage:  true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(serveCmd, checkLoginCmd)
}
