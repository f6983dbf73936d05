package handler

import (
	"context"
	"encoding/json"
	"errors"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"youtube-automation/dto"
	"youtube-automation/pipeline"
)

type ServiceDependencies struct {
	Pipeline pipeline.Service
}

// RunHandler drives one pipeline run per queue message. Stage failures are
// already recorded on the video record, so they are logged and not redelivered.
func RunHandler(ctx context.Context, msg amqp.Delivery, deps ServiceDependencies) error {
	var request dto.RunRequestMessage
	if err := json.Unmarshal(msg.Body, &request); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to unmarshal run request message")
		return err
	}

	zerolog.Ctx(ctx).Info().
		Str("request_id", request.RequestId.String()).
		Str("channel_id", request.ChannelId.String()).
		Str("content_source", request.ContentSource.String()).
		Msg("received run request")

	videoId, err := deps.Pipeline.Run(ctx, dto.RunRequest{
		ChannelId:     request.ChannelId,
		ContentSource: request.ContentSource,
		Topic:         request.Topic,
	})
	if err != nil {
		var stageErr *pipeline.StageError
		if errors.As(err, &stageErr) {
			zerolog.Ctx(ctx).Error().Err(err).
				Str("video_id", videoId.String()).
				Str("stage", stageErr.Stage.String()).
				Msg("pipeline run failed")
			return nil
		}
		return err
	}

	zerolog.Ctx(ctx).Info().Str("video_id", videoId.String()).Msg("pipeline run finished")
	return nil
}
