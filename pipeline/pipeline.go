package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"youtube-automation/constant"
	"youtube-automation/dto"
	"youtube-automation/entities"
	"youtube-automation/repository"
)

// Service drives one video record through the fixed stage sequence. It is the
// sole writer of stage, stage_progress and status while a run is in flight.
type Service interface {
	Run(ctx context.Context, request dto.RunRequest) (uuid.UUID, error)
}

// ArtifactStore provides deterministic artifact destinations for a run.
type ArtifactStore interface {
	EnsureDirs() error
	AudioPath(videoId uuid.UUID) string
	VideoPath(videoId uuid.UUID) string
	Mirror(ctx context.Context, videoId uuid.UUID, localPath, contentType string)
}

type service struct {
	repo         repository.VideoRepository
	collab       Collaborators
	artifacts    ArtifactStore
	stageTimeout time.Duration
	now          func() time.Time
}

func NewService(repo repository.VideoRepository, collab Collaborators, artifacts ArtifactStore, stageTimeout time.Duration) Service {
	return &service{
		repo:         repo,
		collab:       collab,
		artifacts:    artifacts,
		stageTimeout: stageTimeout,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Run executes the full pipeline for one new video record. The record is
// inserted before the first collaborator call so even a sourcing failure
// leaves a durable trace. On failure the returned id still identifies the
// failed record.
func (s *service) Run(ctx context.Context, request dto.RunRequest) (videoId uuid.UUID, err error) {
	contentSource := request.ContentSource
	if contentSource == "" {
		contentSource = constant.ContentSourceTrending
	}

	video := &entities.Video{
		ID:            uuid.New(),
		ChannelId:     request.ChannelId,
		Topic:         strings.TrimSpace(request.Topic),
		ContentSource: contentSource,
		Status:        constant.VideoStatusPending,
		Stage:         constant.StageSourcing,
		StageProgress: 0,
		CreatedAt:     s.now(),
	}
	if err := s.repo.CreateVideo(ctx, video); err != nil {
		return uuid.Nil, &StoreError{Op: "create video", Err: err}
	}
	videoId = video.ID

	logger := zerolog.Ctx(ctx).With().Str("video_id", videoId.String()).Logger()
	logger.Info().Str("content_source", contentSource.String()).Msg("pipeline run started")

	if err := s.artifacts.EnsureDirs(); err != nil {
		return videoId, s.fail(ctx, videoId, constant.StageSourcing, fmt.Errorf("prepare artifact directories: %w", err))
	}

	// Stage 1: sourcing. A supplied topic is used verbatim and the sourcer
	// is not called.
	topic := video.Topic
	if topic != "" {
		if err := s.completeStage(ctx, videoId, constant.StageSourcing,
			dto.VideoUpdate{Topic: &topic},
			fmt.Sprintf("using supplied topic: %s", topic)); err != nil {
			return videoId, err
		}
	} else {
		sourced, err := s.callSourcer(ctx)
		if err != nil {
			return videoId, s.fail(ctx, videoId, constant.StageSourcing, err)
		}
		topic = sourced
		if err := s.completeStage(ctx, videoId, constant.StageSourcing,
			dto.VideoUpdate{Topic: &topic},
			fmt.Sprintf("selected trending topic: %s", topic)); err != nil {
			return videoId, err
		}
	}

	// Stage 2: script generation.
	script, err := s.callWriter(ctx, topic)
	if err != nil {
		return videoId, s.fail(ctx, videoId, constant.StageScriptGeneration, err)
	}
	if err := s.completeStage(ctx, videoId, constant.StageScriptGeneration,
		dto.VideoUpdate{Script: &script.Text},
		fmt.Sprintf("script generated, estimated %.1fs spoken", script.EstimatedDuration)); err != nil {
		return videoId, err
	}

	// Stage 3: audio generation.
	audioPath, err := s.callNarrator(ctx, script.Text, s.artifacts.AudioPath(videoId))
	if err != nil {
		return videoId, s.fail(ctx, videoId, constant.StageAudioGeneration, err)
	}
	s.artifacts.Mirror(ctx, videoId, audioPath, "audio/mpeg")
	if err := s.completeStage(ctx, videoId, constant.StageAudioGeneration,
		dto.VideoUpdate{AudioPath: &audioPath},
		fmt.Sprintf("narration synthesized: %s", audioPath)); err != nil {
		return videoId, err
	}

	// Stage 4: video generation.
	videoPath, err := s.callAssembler(ctx, AssembleInput{
		AudioPath:  audioPath,
		Script:     script.Text,
		Topic:      topic,
		OutputPath: s.artifacts.VideoPath(videoId),
	})
	if err != nil {
		return videoId, s.fail(ctx, videoId, constant.StageVideoGeneration, err)
	}
	s.artifacts.Mirror(ctx, videoId, videoPath, "video/mp4")
	if err := s.completeStage(ctx, videoId, constant.StageVideoGeneration,
		dto.VideoUpdate{VideoPath: &videoPath},
		fmt.Sprintf("video assembled: %s", videoPath)); err != nil {
		return videoId, err
	}

	// Stage 5: metadata generation. The payload is opaque here; it is stored
	// as produced, not validated.
	metadata, err := s.callMetadata(ctx, topic, script.Text)
	if err != nil {
		return videoId, s.fail(ctx, videoId, constant.StageMetadataGeneration, err)
	}
	tags := strings.Join(metadata.Tags, ",")
	if err := s.completeStage(ctx, videoId, constant.StageMetadataGeneration,
		dto.VideoUpdate{Title: &metadata.Title, Description: &metadata.Description, Tags: &tags},
		fmt.Sprintf("metadata generated: %s", metadata.Title)); err != nil {
		return videoId, err
	}

	// Stage 6: scheduling. The returned timestamp is recorded verbatim.
	schedule, err := s.callScheduler(ctx, videoPath, metadata)
	if err != nil {
		return videoId, s.fail(ctx, videoId, constant.StageScheduling, err)
	}
	if err := s.completeStage(ctx, videoId, constant.StageScheduling,
		dto.VideoUpdate{ScheduledTime: &schedule.ScheduledTime},
		fmt.Sprintf("upload scheduled for %s", schedule.ScheduledTime.Format(time.RFC3339))); err != nil {
		return videoId, err
	}

	// Terminal success marker.
	ready := constant.VideoStatusReady
	if err := s.completeStage(ctx, videoId, constant.StageCompleted,
		dto.VideoUpdate{Status: &ready},
		"pipeline complete, video ready for upload"); err != nil {
		return videoId, err
	}

	logger.Info().Str("topic", topic).Time("scheduled_time", schedule.ScheduledTime).Msg("pipeline run completed")
	return videoId, nil
}

// completeStage makes a stage's effects visible: the produced fields, the
// stage pointer advance and the completed log entry land in one transaction.
func (s *service) completeStage(ctx context.Context, videoId uuid.UUID, stage constant.Stage, update dto.VideoUpdate, message string) error {
	stageCopy := stage
	progress := stage.Progress()
	update.Stage = &stageCopy
	update.StageProgress = &progress

	err := s.repo.Transaction(ctx, func(ctx context.Context) error {
		if err := s.repo.UpdateVideo(ctx, videoId, update); err != nil {
			return err
		}
		return s.repo.AppendStageLog(ctx, &entities.StageLog{
			VideoId:   videoId,
			Stage:     stage,
			Status:    constant.LogStatusCompleted,
			Message:   message,
			Timestamp: s.now(),
		})
	})
	if err != nil {
		return &StoreError{Op: fmt.Sprintf("complete stage %s", stage), Err: err}
	}

	zerolog.Ctx(ctx).Info().
		Str("video_id", videoId.String()).
		Str("stage", stage.String()).
		Int("progress", progress).
		Msg("stage completed")
	return nil
}

// fail records a terminal failure. The stage pointer is left at the last
// completed stage; only status and the diagnostic move. Artifacts already on
// disk stay in place.
func (s *service) fail(ctx context.Context, videoId uuid.UUID, stage constant.Stage, cause error) error {
	stageErr := &StageError{Stage: stage, Err: cause}
	diagnostic := stageErr.Error()

	failed := constant.VideoStatusFailed
	storeErr := s.repo.Transaction(ctx, func(ctx context.Context) error {
		if err := s.repo.UpdateVideo(ctx, videoId, dto.VideoUpdate{
			Status:   &failed,
			ErrorLog: &diagnostic,
		}); err != nil {
			return err
		}
		return s.repo.AppendStageLog(ctx, &entities.StageLog{
			VideoId:   videoId,
			Stage:     stage,
			Status:    constant.LogStatusFailed,
			Message:   diagnostic,
			Timestamp: s.now(),
		})
	})
	if storeErr != nil {
		zerolog.Ctx(ctx).Error().Err(storeErr).
			Str("video_id", videoId.String()).
			Str("stage", stage.String()).
			Msg("failed to record pipeline failure")
		return &StoreError{Op: fmt.Sprintf("record failure at stage %s", stage), Err: storeErr}
	}

	zerolog.Ctx(ctx).Error().Err(cause).
		Str("video_id", videoId.String()).
		Str("stage", stage.String()).
		Msg("pipeline run failed")
	return stageErr
}

func (s *service) stageContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.stageTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.stageTimeout)
}

func (s *service) callSourcer(ctx context.Context) (string, error) {
	ctx, cancel := s.stageContext(ctx)
	defer cancel()
	return s.collab.Sourcer.SourceTopic(ctx)
}

func (s *service) callWriter(ctx context.Context, topic string) (*ScriptResult, error) {
	ctx, cancel := s.stageContext(ctx)
	defer cancel()
	return s.collab.Writer.WriteScript(ctx, topic)
}

func (s *service) callNarrator(ctx context.Context, script, outputPath string) (string, error) {
	ctx, cancel := s.stageContext(ctx)
	defer cancel()
	return s.collab.Narrator.Synthesize(ctx, script, outputPath)
}

func (s *service) callAssembler(ctx context.Context, input AssembleInput) (string, error) {
	ctx, cancel := s.stageContext(ctx)
	defer cancel()
	return s.collab.Assembler.Assemble(ctx, input)
}

func (s *service) callMetadata(ctx context.Context, topic, script string) (*Metadata, error) {
	ctx, cancel := s.stageContext(ctx)
	defer cancel()
	return s.collab.Metadata.WriteMetadata(ctx, topic, script)
}

func (s *service) callScheduler(ctx context.Context, videoPath string, metadata *Metadata) (*Schedule, error) {
	ctx, cancel := s.stageContext(ctx)
	defer cancel()
	return s.collab.Scheduler.Schedule(ctx, videoPath, metadata)
}
