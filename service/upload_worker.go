package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"youtube-automation/config"
	"youtube-automation/constant"
	"youtube-automation/dto"
	"youtube-automation/entities"
	"youtube-automation/pkg/youtube"
	"youtube-automation/repository"
)

// Uploader is the external upload call the worker drives.
type Uploader interface {
	Upload(ctx context.Context, input youtube.UploadInput) (string, error)
}

// UploadWorker executes scheduled uploads of ready videos. It runs outside
// the pipeline core: a record only becomes `uploaded` here.
type UploadWorker interface {
	ProcessDue(ctx context.Context) error
}

type uploadWorker struct {
	repo     repository.VideoRepository
	uploader Uploader
	cfg      *config.Config
}

func NewUploadWorker(repo repository.VideoRepository, uploader Uploader, cfg *config.Config) UploadWorker {
	return &uploadWorker{
		repo:     repo,
		uploader: uploader,
		cfg:      cfg,
	}
}

// ProcessDue uploads every ready video whose scheduled time has passed.
// One failing record does not stop the sweep.
func (w *uploadWorker) ProcessDue(ctx context.Context) error {
	videos, err := w.repo.ListVideosReadyForUpload(ctx)
	if err != nil {
		return fmt.Errorf("list videos ready for upload: %w", err)
	}

	zerolog.Ctx(ctx).Info().Int("count", len(videos)).Msg("videos due for upload")

	for _, video := range videos {
		if err := w.processOne(ctx, video); err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Str("video_id", video.ID.String()).Msg("upload failed")
		}
	}
	return nil
}

func (w *uploadWorker) processOne(ctx context.Context, video *entities.Video) error {
	if video.VideoPath == nil || video.Title == nil || video.Description == nil {
		return w.markFailed(ctx, video, fmt.Errorf("record missing upload fields"))
	}

	var tags []string
	if video.Tags != nil && *video.Tags != "" {
		tags = strings.Split(*video.Tags, ",")
	}

	youtubeId, err := w.uploader.Upload(ctx, youtube.UploadInput{
		VideoPath:   *video.VideoPath,
		Title:       *video.Title,
		Description: *video.Description,
		Tags:        tags,
		PublishAt:   *video.ScheduledTime,
	})
	if err != nil {
		return w.markFailed(ctx, video, err)
	}

	uploaded := constant.VideoStatusUploaded
	now := time.Now().UTC()
	update := dto.VideoUpdate{
		Status:     &uploaded,
		YoutubeId:  &youtubeId,
		UploadedAt: &now,
	}
	if err := w.repo.UpdateVideo(ctx, video.ID, update); err != nil {
		return fmt.Errorf("mark video uploaded: %w", err)
	}

	zerolog.Ctx(ctx).Info().
		Str("video_id", video.ID.String()).
		Str("youtube_id", youtubeId).
		Msg("video uploaded")
	return nil
}

func (w *uploadWorker) markFailed(ctx context.Context, video *entities.Video, cause error) error {
	failed := constant.VideoStatusFailed
	diagnostic := fmt.Sprintf("upload: %v", cause)
	update := dto.VideoUpdate{
		Status:   &failed,
		ErrorLog: &diagnostic,
	}
	if err := w.repo.UpdateVideo(ctx, video.ID, update); err != nil {
		return fmt.Errorf("record upload failure: %w", err)
	}
	return cause
}
