package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"youtube-automation/constant"
	"youtube-automation/dto"
	"youtube-automation/entities"
)

type VideoRepository interface {
	Transaction(ctx context.Context, callback func(ctx context.Context) error, opts ...*sql.TxOptions) error
	GetDB() *gorm.DB

	CreateVideo(ctx context.Context, video *entities.Video) error
	FindVideoById(ctx context.Context, id uuid.UUID) (*entities.Video, error)
	ListVideos(ctx context.Context) ([]*entities.Video, error)
	UpdateVideo(ctx context.Context, id uuid.UUID, update dto.VideoUpdate) error

	AppendStageLog(ctx context.Context, log *entities.StageLog) error
	ListStageLogs(ctx context.Context, videoId uuid.UUID) ([]*entities.StageLog, error)

	CreateChannel(ctx context.Context, channel *entities.Channel) error
	FindChannelById(ctx context.Context, id uuid.UUID) (*entities.Channel, error)
	ListChannels(ctx context.Context) ([]*entities.Channel, error)

	ListVideosReadyForUpload(ctx context.Context) ([]*entities.Video, error)
	Stats(ctx context.Context) (*dto.Stats, error)
}

type repo struct {
	db *gorm.DB
}

// txKey carries the open transaction through the callback context so every
// repository call inside Transaction runs on it, not on the root handle.
type txKey struct{}

func NewRepo(db *sql.DB) VideoRepository {
	gormDB, _ := gorm.Open(postgres.New(postgres.Config{
		Conn: db}),
		&gorm.Config{
			Logger: logger.Default.LogMode(logger.Info),
		},
	)
	return &repo{
		db: gormDB,
	}
}

func (r *repo) GetDB() *gorm.DB {
	return r.db
}

func (r *repo) Transaction(ctx context.Context, callback func(ctx context.Context) error, opts ...*sql.TxOptions) error {
	return r.conn(ctx).WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return callback(context.WithValue(ctx, txKey{}, tx))
	}, opts...)
}

// conn returns the transaction bound to ctx when one is open, otherwise the
// root handle.
func (r *repo) conn(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return r.db
}

func (r *repo) CreateVideo(ctx context.Context, video *entities.Video) error {
	return r.conn(ctx).WithContext(ctx).Create(video).Error
}

func (r *repo) FindVideoById(ctx context.Context, id uuid.UUID) (*entities.Video, error) {
	video := &entities.Video{}
	err := r.conn(ctx).WithContext(ctx).First(video, "id = ?", id).Error
	if err != nil {
		return nil, err
	}

	return video, nil
}

func (r *repo) ListVideos(ctx context.Context) ([]*entities.Video, error) {
	var videos []*entities.Video
	err := r.conn(ctx).WithContext(ctx).Order("created_at DESC").Find(&videos).Error
	if err != nil {
		return nil, err
	}
	return videos, nil
}

// UpdateVideo applies a partial update. Unset fields keep their prior value.
func (r *repo) UpdateVideo(ctx context.Context, id uuid.UUID, update dto.VideoUpdate) error {
	fields := update.Fields()
	if len(fields) == 0 {
		return nil
	}
	return r.conn(ctx).WithContext(ctx).Model(&entities.Video{}).Where("id = ?", id).Updates(fields).Error
}

func (r *repo) AppendStageLog(ctx context.Context, log *entities.StageLog) error {
	return r.conn(ctx).WithContext(ctx).Create(log).Error
}

func (r *repo) ListStageLogs(ctx context.Context, videoId uuid.UUID) ([]*entities.StageLog, error) {
	var logs []*entities.StageLog
	err := r.conn(ctx).WithContext(ctx).Where("video_id = ?", videoId).Order("timestamp ASC").Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *repo) CreateChannel(ctx context.Context, channel *entities.Channel) error {
	return r.conn(ctx).WithContext(ctx).Create(channel).Error
}

func (r *repo) FindChannelById(ctx context.Context, id uuid.UUID) (*entities.Channel, error) {
	channel := &entities.Channel{}
	err := r.conn(ctx).WithContext(ctx).First(channel, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return channel, nil
}

func (r *repo) ListChannels(ctx context.Context) ([]*entities.Channel, error) {
	var channels []*entities.Channel
	err := r.conn(ctx).WithContext(ctx).Order("created_at DESC").Find(&channels).Error
	if err != nil {
		return nil, err
	}
	return channels, nil
}

// ListVideosReadyForUpload returns ready records whose scheduled time has passed.
func (r *repo) ListVideosReadyForUpload(ctx context.Context) ([]*entities.Video, error) {
	var videos []*entities.Video
	err := r.conn(ctx).WithContext(ctx).
		Where("status = ? AND scheduled_time IS NOT NULL AND scheduled_time <= CURRENT_TIMESTAMP", constant.VideoStatusReady).
		Order("scheduled_time ASC").
		Find(&videos).Error
	if err != nil {
		return nil, err
	}
	return videos, nil
}

func (r *repo) Stats(ctx context.Context) (*dto.Stats, error) {
	stats := &dto.Stats{}
	db := r.conn(ctx).WithContext(ctx).Model(&entities.Video{})

	if err := db.Session(&gorm.Session{}).Count(&stats.TotalVideos).Error; err != nil {
		return nil, err
	}

	counts := []struct {
		status constant.VideoStatus
		dest   *int64
	}{
		{constant.VideoStatusPending, &stats.Pending},
		{constant.VideoStatusReady, &stats.Ready},
		{constant.VideoStatusUploaded, &stats.Uploaded},
		{constant.VideoStatusFailed, &stats.Failed},
	}
	for _, c := range counts {
		if err := db.Session(&gorm.Session{}).Where("status = ?", c.status).Count(c.dest).Error; err != nil {
			return nil, err
		}
	}

	row := r.conn(ctx).WithContext(ctx).Model(&entities.Video{}).
		Select("COALESCE(SUM(views), 0), COALESCE(AVG(ctr), 0), COALESCE(AVG(retention), 0)").
		Row()
	if err := row.Scan(&stats.TotalViews, &stats.AvgCTR, &stats.AvgRetention); err != nil {
		return nil, err
	}

	return stats, nil
}
