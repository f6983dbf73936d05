package cmd

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"youtube-automation/config"
	"youtube-automation/pkg/youtube"
	"youtube-automation/repository"
	"youtube-automation/service"
)

// upload sweeps ready videos past their scheduled time and uploads them.
func upload(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "upload",
		Short: "upload scheduled videos to YouTube",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
			ctx := logger.WithContext(context.Background())

			repo := repository.NewRepo(cfg.DB)
			worker := service.NewUploadWorker(repo, youtube.NewUploader(&cfg.Upload), cfg)
			return worker.ProcessDue(ctx)
		},
	}
}
