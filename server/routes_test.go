package server

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"youtube-automation/constant"
	"youtube-automation/dto"
	"youtube-automation/entities"
)

type fakeRepo struct {
	videos   map[uuid.UUID]*entities.Video
	logs     []*entities.StageLog
	channels []*entities.Channel
	updates  []dto.VideoUpdate
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{videos: map[uuid.UUID]*entities.Video{}}
}

func (r *fakeRepo) Transaction(ctx context.Context, callback func(ctx context.Context) error, opts ...*sql.TxOptions) error {
	return callback(ctx)
}

func (r *fakeRepo) GetDB() *gorm.DB { return nil }

func (r *fakeRepo) CreateVideo(ctx context.Context, video *entities.Video) error {
	r.videos[video.ID] = video
	return nil
}

func (r *fakeRepo) FindVideoById(ctx context.Context, id uuid.UUID) (*entities.Video, error) {
	video, ok := r.videos[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return video, nil
}

func (r *fakeRepo) ListVideos(ctx context.Context) ([]*entities.Video, error) {
	var videos []*entities.Video
	for _, v := range r.videos {
		videos = append(videos, v)
	}
	return videos, nil
}

func (r *fakeRepo) UpdateVideo(ctx context.Context, id uuid.UUID, update dto.VideoUpdate) error {
	if _, ok := r.videos[id]; !ok {
		return errors.New("not found")
	}
	r.updates = append(r.updates, update)
	return nil
}

func (r *fakeRepo) AppendStageLog(ctx context.Context, log *entities.StageLog) error {
	r.logs = append(r.logs, log)
	return nil
}

func (r *fakeRepo) ListStageLogs(ctx context.Context, videoId uuid.UUID) ([]*entities.StageLog, error) {
	var logs []*entities.StageLog
	for _, l := range r.logs {
		if l.VideoId == videoId {
			logs = append(logs, l)
		}
	}
	return logs, nil
}

func (r *fakeRepo) CreateChannel(ctx context.Context, channel *entities.Channel) error {
	channel.ID = uuid.New()
	r.channels = append(r.channels, channel)
	return nil
}

func (r *fakeRepo) FindChannelById(ctx context.Context, id uuid.UUID) (*entities.Channel, error) {
	for _, c := range r.channels {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *fakeRepo) ListChannels(ctx context.Context) ([]*entities.Channel, error) {
	return r.channels, nil
}

func (r *fakeRepo) ListVideosReadyForUpload(ctx context.Context) ([]*entities.Video, error) {
	return nil, nil
}

func (r *fakeRepo) Stats(ctx context.Context) (*dto.Stats, error) {
	return &dto.Stats{TotalVideos: int64(len(r.videos))}, nil
}

type fakePublisher struct {
	published []any
	err       error
}

func (p *fakePublisher) PublishRunRequest(ctx context.Context, message any) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, message)
	return nil
}

func newTestRouter(repo *fakeRepo, publisher *fakePublisher) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	addRoutes(r, newAPI(repo, publisher))
	return r
}

func seedVideo(repo *fakeRepo, status constant.VideoStatus) *entities.Video {
	video := &entities.Video{
		ID:            uuid.New(),
		ChannelId:     uuid.New(),
		Topic:         "morning routines",
		ContentSource: constant.ContentSourceTrending,
		Status:        status,
		Stage:         constant.StageCompleted,
		StageProgress: 100,
		CreatedAt:     time.Now().UTC(),
	}
	repo.videos[video.ID] = video
	return video
}

func doRequest(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestGetVideo(t *testing.T) {
	repo := newFakeRepo()
	video := seedVideo(repo, constant.VideoStatusReady)
	router := newTestRouter(repo, &fakePublisher{})

	recorder := doRequest(t, router, http.MethodGet, "/api/videos/"+video.ID.String(), nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body)
	}

	var got entities.Video
	if err := json.Unmarshal(recorder.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.ID != video.ID {
		t.Errorf("expected video %s, got %s", video.ID, got.ID)
	}
}

func TestGetVideoInvalidId(t *testing.T) {
	router := newTestRouter(newFakeRepo(), &fakePublisher{})
	recorder := doRequest(t, router, http.MethodGet, "/api/videos/not-a-uuid", nil)
	if recorder.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", recorder.Code)
	}
}

func TestGetVideoNotFound(t *testing.T) {
	router := newTestRouter(newFakeRepo(), &fakePublisher{})
	recorder := doRequest(t, router, http.MethodGet, "/api/videos/"+uuid.NewString(), nil)
	if recorder.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", recorder.Code)
	}
}

func TestGetVideoLogs(t *testing.T) {
	repo := newFakeRepo()
	video := seedVideo(repo, constant.VideoStatusReady)
	repo.logs = append(repo.logs, &entities.StageLog{
		VideoId: video.ID,
		Stage:   constant.StageSourcing,
		Status:  constant.LogStatusCompleted,
		Message: "selected trending topic: morning routines",
	})
	router := newTestRouter(repo, &fakePublisher{})

	recorder := doRequest(t, router, http.MethodGet, "/api/videos/"+video.ID.String()+"/logs", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}

	var logs []entities.StageLog
	if err := json.Unmarshal(recorder.Body.Bytes(), &logs); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(logs) != 1 || logs[0].Stage != constant.StageSourcing {
		t.Errorf("unexpected logs payload: %+v", logs)
	}
}

func TestGetStats(t *testing.T) {
	repo := newFakeRepo()
	seedVideo(repo, constant.VideoStatusReady)
	router := newTestRouter(repo, &fakePublisher{})

	recorder := doRequest(t, router, http.MethodGet, "/api/stats", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}

	var stats dto.Stats
	if err := json.Unmarshal(recorder.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if stats.TotalVideos != 1 {
		t.Errorf("expected 1 total video, got %d", stats.TotalVideos)
	}
}

func TestCreateRunPublishes(t *testing.T) {
	repo := newFakeRepo()
	publisher := &fakePublisher{}
	router := newTestRouter(repo, publisher)

	channelId := uuid.New()
	recorder := doRequest(t, router, http.MethodPost, "/api/videos", gin.H{
		"channel_id": channelId,
		"topic":      "evening wind down",
	})
	if recorder.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", recorder.Code, recorder.Body)
	}
	if len(publisher.published) != 1 {
		t.Fatalf("expected 1 published message, got %d", len(publisher.published))
	}

	message, ok := publisher.published[0].(dto.RunRequestMessage)
	if !ok {
		t.Fatalf("unexpected message type %T", publisher.published[0])
	}
	if message.ChannelId != channelId {
		t.Errorf("expected channel %s, got %s", channelId, message.ChannelId)
	}
	if message.Topic != "evening wind down" {
		t.Errorf("topic not forwarded: %q", message.Topic)
	}
	if message.ContentSource != constant.ContentSourceTrending {
		t.Errorf("expected default content source trending, got %s", message.ContentSource)
	}
}

func TestCreateRunPublishFailure(t *testing.T) {
	router := newTestRouter(newFakeRepo(), &fakePublisher{err: errors.New("broker down")})

	recorder := doRequest(t, router, http.MethodPost, "/api/videos", gin.H{"channel_id": uuid.New()})
	if recorder.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", recorder.Code)
	}
}

func TestUpdateVideo(t *testing.T) {
	repo := newFakeRepo()
	video := seedVideo(repo, constant.VideoStatusReady)
	router := newTestRouter(repo, &fakePublisher{})

	recorder := doRequest(t, router, http.MethodPatch, "/api/videos/"+video.ID.String(), gin.H{
		"title":    "A Better Title",
		"approved": true,
	})
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body)
	}
	if len(repo.updates) != 1 {
		t.Fatalf("expected 1 update, got %d", len(repo.updates))
	}
	update := repo.updates[0]
	if update.Title == nil || *update.Title != "A Better Title" {
		t.Error("title not applied")
	}
	if update.Approved == nil || !*update.Approved {
		t.Error("approved not applied")
	}
}

func TestUpdateVideoRejectsPipelineOwnedFields(t *testing.T) {
	repo := newFakeRepo()
	video := seedVideo(repo, constant.VideoStatusReady)
	router := newTestRouter(repo, &fakePublisher{})

	for _, field := range []string{"status", "stage", "stage_progress", "error_log"} {
		recorder := doRequest(t, router, http.MethodPatch, "/api/videos/"+video.ID.String(), gin.H{field: "x"})
		if recorder.Code != http.StatusBadRequest {
			t.Errorf("field %q: expected 400, got %d", field, recorder.Code)
		}
	}
	if len(repo.updates) != 0 {
		t.Errorf("expected no updates to reach the store, got %d", len(repo.updates))
	}
}

func TestUpdateVideoConflictsWhilePending(t *testing.T) {
	repo := newFakeRepo()
	video := seedVideo(repo, constant.VideoStatusPending)
	router := newTestRouter(repo, &fakePublisher{})

	recorder := doRequest(t, router, http.MethodPatch, "/api/videos/"+video.ID.String(), gin.H{"title": "x"})
	if recorder.Code != http.StatusConflict {
		t.Errorf("expected 409 while run is in flight, got %d", recorder.Code)
	}
}

func TestApproveVideo(t *testing.T) {
	repo := newFakeRepo()
	video := seedVideo(repo, constant.VideoStatusReady)
	router := newTestRouter(repo, &fakePublisher{})

	recorder := doRequest(t, router, http.MethodPost, "/api/videos/"+video.ID.String()+"/approve", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	if len(repo.updates) != 1 {
		t.Fatalf("expected 1 update, got %d", len(repo.updates))
	}
	update := repo.updates[0]
	if update.Approved == nil || !*update.Approved {
		t.Error("approved flag not set")
	}
	if update.RequiresReview == nil || *update.RequiresReview {
		t.Error("requires_review flag not cleared")
	}
}

func TestApproveVideoConflictsWhilePending(t *testing.T) {
	repo := newFakeRepo()
	video := seedVideo(repo, constant.VideoStatusPending)
	router := newTestRouter(repo, &fakePublisher{})

	recorder := doRequest(t, router, http.MethodPost, "/api/videos/"+video.ID.String()+"/approve", nil)
	if recorder.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", recorder.Code)
	}
}

func TestCreateChannel(t *testing.T) {
	repo := newFakeRepo()
	router := newTestRouter(repo, &fakePublisher{})

	recorder := doRequest(t, router, http.MethodPost, "/api/channels", gin.H{
		"name":  "Daily Drive",
		"niche": "motivation",
	})
	if recorder.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", recorder.Code, recorder.Body)
	}
	if len(repo.channels) != 1 || repo.channels[0].Name != "Daily Drive" {
		t.Errorf("channel not persisted: %+v", repo.channels)
	}
}

func TestCreateChannelRequiresName(t *testing.T) {
	router := newTestRouter(newFakeRepo(), &fakePublisher{})
	recorder := doRequest(t, router, http.MethodPost, "/api/channels", gin.H{"niche": "motivation"})
	if recorder.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", recorder.Code)
	}
}
