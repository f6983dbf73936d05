package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"youtube-automation/constant"
	"youtube-automation/dto"
	"youtube-automation/entities"
	"youtube-automation/pkg/youtube"
)

type fakeRepo struct {
	due     []*entities.Video
	updates map[uuid.UUID]dto.VideoUpdate
}

func newFakeRepo(due ...*entities.Video) *fakeRepo {
	return &fakeRepo{due: due, updates: map[uuid.UUID]dto.VideoUpdate{}}
}

func (r *fakeRepo) Transaction(ctx context.Context, callback func(ctx context.Context) error, opts ...*sql.TxOptions) error {
	return callback(ctx)
}

func (r *fakeRepo) GetDB() *gorm.DB { return nil }

func (r *fakeRepo) CreateVideo(ctx context.Context, video *entities.Video) error { return nil }

func (r *fakeRepo) FindVideoById(ctx context.Context, id uuid.UUID) (*entities.Video, error) {
	return nil, errors.New("not found")
}

func (r *fakeRepo) ListVideos(ctx context.Context) ([]*entities.Video, error) { return nil, nil }

func (r *fakeRepo) UpdateVideo(ctx context.Context, id uuid.UUID, update dto.VideoUpdate) error {
	r.updates[id] = update
	return nil
}

func (r *fakeRepo) AppendStageLog(ctx context.Context, log *entities.StageLog) error { return nil }

func (r *fakeRepo) ListStageLogs(ctx context.Context, videoId uuid.UUID) ([]*entities.StageLog, error) {
	return nil, nil
}

func (r *fakeRepo) CreateChannel(ctx context.Context, channel *entities.Channel) error { return nil }

func (r *fakeRepo) FindChannelById(ctx context.Context, id uuid.UUID) (*entities.Channel, error) {
	return nil, errors.New("not found")
}

func (r *fakeRepo) ListChannels(ctx context.Context) ([]*entities.Channel, error) { return nil, nil }

func (r *fakeRepo) ListVideosReadyForUpload(ctx context.Context) ([]*entities.Video, error) {
	return r.due, nil
}

func (r *fakeRepo) Stats(ctx context.Context) (*dto.Stats, error) { return &dto.Stats{}, nil }

type fakeUploader struct {
	inputs []youtube.UploadInput
	err    error
}

func (u *fakeUploader) Upload(ctx context.Context, input youtube.UploadInput) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	u.inputs = append(u.inputs, input)
	return "yt-abc123", nil
}

func readyVideo() *entities.Video {
	videoPath := "output/videos/video_a.mp4"
	title := "Start Today"
	description := "A short motivational video."
	tags := "motivation,habits"
	scheduled := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	return &entities.Video{
		ID:            uuid.New(),
		ChannelId:     uuid.New(),
		Status:        constant.VideoStatusReady,
		Stage:         constant.StageCompleted,
		StageProgress: 100,
		VideoPath:     &videoPath,
		Title:         &title,
		Description:   &description,
		Tags:          &tags,
		ScheduledTime: &scheduled,
	}
}

func TestProcessDue_UploadsAndMarksUploaded(t *testing.T) {
	video := readyVideo()
	repo := newFakeRepo(video)
	uploader := &fakeUploader{}
	worker := NewUploadWorker(repo, uploader, nil)

	if err := worker.ProcessDue(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(uploader.inputs) != 1 {
		t.Fatalf("expected 1 upload, got %d", len(uploader.inputs))
	}
	input := uploader.inputs[0]
	if input.Title != "Start Today" || input.VideoPath != *video.VideoPath {
		t.Errorf("upload input not built from record: %+v", input)
	}
	if len(input.Tags) != 2 {
		t.Errorf("expected tags split from csv, got %v", input.Tags)
	}

	update, ok := repo.updates[video.ID]
	if !ok {
		t.Fatal("expected record update after upload")
	}
	if update.Status == nil || *update.Status != constant.VideoStatusUploaded {
		t.Error("expected status uploaded")
	}
	if update.YoutubeId == nil || *update.YoutubeId != "yt-abc123" {
		t.Error("expected youtube id recorded")
	}
	if update.UploadedAt == nil {
		t.Error("expected uploaded_at recorded")
	}
}

func TestProcessDue_MarksFailedOnUploadError(t *testing.T) {
	video := readyVideo()
	repo := newFakeRepo(video)
	worker := NewUploadWorker(repo, &fakeUploader{err: errors.New("quota exceeded")}, nil)

	if err := worker.ProcessDue(context.Background()); err != nil {
		t.Fatalf("sweep should not fail on a single record: %v", err)
	}

	update, ok := repo.updates[video.ID]
	if !ok {
		t.Fatal("expected record update after failed upload")
	}
	if update.Status == nil || *update.Status != constant.VideoStatusFailed {
		t.Error("expected status failed")
	}
	if update.ErrorLog == nil || *update.ErrorLog == "" {
		t.Error("expected error log recorded")
	}
}

func TestProcessDue_MarksFailedOnIncompleteRecord(t *testing.T) {
	video := readyVideo()
	video.Title = nil
	repo := newFakeRepo(video)
	uploader := &fakeUploader{}
	worker := NewUploadWorker(repo, uploader, nil)

	if err := worker.ProcessDue(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(uploader.inputs) != 0 {
		t.Error("expected no upload attempt for incomplete record")
	}
	update, ok := repo.updates[video.ID]
	if !ok {
		t.Fatal("expected record marked failed")
	}
	if update.Status == nil || *update.Status != constant.VideoStatusFailed {
		t.Error("expected status failed")
	}
}

func TestProcessDue_ContinuesAfterOneFailure(t *testing.T) {
	broken := readyVideo()
	broken.VideoPath = nil
	healthy := readyVideo()
	repo := newFakeRepo(broken, healthy)
	uploader := &fakeUploader{}
	worker := NewUploadWorker(repo, uploader, nil)

	if err := worker.ProcessDue(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(uploader.inputs) != 1 {
		t.Fatalf("expected the healthy record to upload, got %d uploads", len(uploader.inputs))
	}
	if update := repo.updates[healthy.ID]; update.Status == nil || *update.Status != constant.VideoStatusUploaded {
		t.Error("healthy record not marked uploaded")
	}
	if update := repo.updates[broken.ID]; update.Status == nil || *update.Status != constant.VideoStatusFailed {
		t.Error("broken record not marked failed")
	}
}
