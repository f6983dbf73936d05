package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"youtube-automation/constant"
	"youtube-automation/dto"
	"youtube-automation/entities"
	"youtube-automation/pkg/rabbitmq"
	"youtube-automation/repository"
)

// api is the read-mostly observer surface plus run dispatch. It never touches
// orchestrator-owned fields directly.
type api struct {
	repo      repository.VideoRepository
	publisher rabbitmq.Publisher
}

func newAPI(repo repository.VideoRepository, publisher rabbitmq.Publisher) *api {
	return &api{
		repo:      repo,
		publisher: publisher,
	}
}

func addRoutes(r *gin.Engine, a *api) {
	group := r.Group("/api")
	group.GET("/videos", a.listVideos)
	group.GET("/videos/:id", a.getVideo)
	group.GET("/videos/:id/logs", a.getVideoLogs)
	group.GET("/stats", a.getStats)
	group.GET("/channels", a.listChannels)
	group.POST("/channels", a.createChannel)
	group.POST("/videos", a.createRun)
	group.POST("/videos/:id/approve", a.approveVideo)
	group.PATCH("/videos/:id", a.updateVideo)
}

func (a *api) listVideos(c *gin.Context) {
	videos, err := a.repo.ListVideos(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, videos)
}

func (a *api) getVideo(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid video id"})
		return
	}

	video, err := a.repo.FindVideoById(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "video not found"})
		return
	}
	c.JSON(http.StatusOK, video)
}

func (a *api) getVideoLogs(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid video id"})
		return
	}

	logs, err := a.repo.ListStageLogs(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, logs)
}

func (a *api) getStats(c *gin.Context) {
	stats, err := a.repo.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (a *api) listChannels(c *gin.Context) {
	channels, err := a.repo.ListChannels(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, channels)
}

type createChannelRequest struct {
	Name  string `json:"name" binding:"required"`
	Niche string `json:"niche"`
}

func (a *api) createChannel(c *gin.Context) {
	var req createChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	channel := &entities.Channel{
		Name:            req.Name,
		Niche:           req.Niche,
		UploadFrequency: "daily",
		Status:          "active",
	}
	if err := a.repo.CreateChannel(c.Request.Context(), channel); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, channel)
}

type createRunRequest struct {
	ChannelId     uuid.UUID `json:"channel_id" binding:"required"`
	ContentSource string    `json:"content_source"`
	Topic         string    `json:"topic"`
}

// createRun publishes a run request; the consumer executes the pipeline so
// this handler returns immediately.
func (a *api) createRun(c *gin.Context) {
	var req createRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	source := constant.ContentSource(req.ContentSource)
	if source == "" {
		source = constant.ContentSourceTrending
	}

	message := dto.RunRequestMessage{
		RequestId:     uuid.New(),
		ChannelId:     req.ChannelId,
		ContentSource: source,
		Topic:         req.Topic,
	}
	if err := a.publisher.PublishRunRequest(c.Request.Context(), message); err != nil {
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("failed to publish run request")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to dispatch pipeline run"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "started", "request_id": message.RequestId})
}

func (a *api) approveVideo(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid video id"})
		return
	}

	video, err := a.repo.FindVideoById(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "video not found"})
		return
	}
	if video.Status == constant.VideoStatusPending {
		c.JSON(http.StatusConflict, gin.H{"error": "video run is still in flight"})
		return
	}

	approved := true
	requiresReview := false
	update := dto.VideoUpdate{Approved: &approved, RequiresReview: &requiresReview}
	if err := a.repo.UpdateVideo(c.Request.Context(), id, update); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "approved"})
}

// updateVideo applies a validated partial update. Unknown fields and
// orchestrator-owned fields are rejected, and no external write is allowed
// while a run is in flight.
func (a *api) updateVideo(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid video id"})
		return
	}

	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	update, err := dto.UpdateFromFields(fields)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	video, err := a.repo.FindVideoById(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "video not found"})
		return
	}
	if video.Status == constant.VideoStatusPending {
		c.JSON(http.StatusConflict, gin.H{"error": "video run is still in flight"})
		return
	}

	if err := a.repo.UpdateVideo(c.Request.Context(), id, update); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}
