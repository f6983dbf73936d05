package cmd

import (
	"github.com/spf13/cobra"
	"youtube-automation/config"
	server2 "youtube-automation/server"
)

func server(config *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "start http server and pipeline consumer",
		Run: func(cmd *cobra.Command, args []string) {
			server2.RunHttp(config)
		},
	}
}
