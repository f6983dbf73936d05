package cmd

import (
	"github.com/spf13/cobra"
	"youtube-automation/config"
)

func Root(config *config.Config) *cobra.Command {
	rootCmd := &cobra.Command{}
	rootCmd.AddCommand(server(config))
	rootCmd.AddCommand(run(config))
	rootCmd.AddCommand(upload(config))
	return rootCmd
}
