package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"youtube-automation/config"
	"youtube-automation/constant"
	"youtube-automation/dto"
	"youtube-automation/pipeline"
	"youtube-automation/pkg/artifact"
	"youtube-automation/repository"
)

// run executes one pipeline run synchronously and prints the video id.
func run(cfg *config.Config) *cobra.Command {
	var channelId string
	var contentSource string
	var topic string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "execute one video production run",
		RunE: func(cmd *cobra.Command, args []string) error {
			parsedChannelId, err := uuid.Parse(channelId)
			if err != nil {
				return fmt.Errorf("invalid channel id: %w", err)
			}

			logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
			ctx := logger.WithContext(context.Background())

			repo := repository.NewRepo(cfg.DB)
			store := artifact.NewStore(cfg.Pipeline.OutputDir, cfg.Storage, cfg.MinIOBucket)
			pipelineService := pipeline.NewService(repo, pipeline.DefaultCollaborators(cfg), store, cfg.Pipeline.StageTimeout)

			videoId, err := pipelineService.Run(ctx, dto.RunRequest{
				ChannelId:     parsedChannelId,
				ContentSource: constant.ContentSource(contentSource),
				Topic:         topic,
			})
			if err != nil {
				if videoId != uuid.Nil {
					fmt.Printf("run failed, video id: %s\n", videoId)
				}
				return err
			}

			fmt.Printf("video id: %s\n", videoId)
			return nil
		},
	}

	cmd.Flags().StringVar(&channelId, "channel", "", "channel id the video belongs to")
	cmd.Flags().StringVar(&contentSource, "source", "trending", "content source tag")
	cmd.Flags().StringVar(&topic, "topic", "", "optional custom topic, skips sourcing")
	_ = cmd.MarkFlagRequired("channel")

	return cmd
}
