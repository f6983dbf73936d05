package entities

import (
	"time"

	"github.com/google/uuid"
	"youtube-automation/constant"
)

type Video struct {
	ID            uuid.UUID              `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ChannelId     uuid.UUID              `json:"channel_id" gorm:"type:uuid;not null;index:idx_videos_channel_id"`
	Topic         string                 `json:"topic" gorm:"type:text"`
	ContentSource constant.ContentSource `json:"content_source" gorm:"type:varchar(20);not null;default:'trending'"`
	Script        *string                `json:"script" gorm:"type:text"`
	AudioPath     *string                `json:"audio_path" gorm:"type:varchar(500)"`
	VideoPath     *string                `json:"video_path" gorm:"type:varchar(500)"`
	ThumbnailPath *string                `json:"thumbnail_path" gorm:"type:varchar(500)"`
	Title         *string                `json:"title" gorm:"type:varchar(255)"`
	Description   *string                `json:"description" gorm:"type:text"`
	Tags          *string                `json:"tags" gorm:"type:text"`
	Status        constant.VideoStatus   `json:"status" gorm:"type:varchar(20);not null;default:'pending';index:idx_videos_status"`
	Stage         constant.Stage         `json:"stage" gorm:"type:varchar(30);not null;default:'sourcing'"`
	StageProgress int                    `json:"stage_progress" gorm:"type:integer;not null;default:0"`

	RequiresReview bool `json:"requires_review" gorm:"not null;default:false"`
	Approved       bool `json:"approved" gorm:"not null;default:false"`

	ScheduledTime *time.Time `json:"scheduled_time" gorm:"type:timestamptz"`
	YoutubeId     *string    `json:"youtube_id" gorm:"type:varchar(50)"`

	// Engagement metrics, populated after upload by an external process.
	Views     *int64   `json:"views" gorm:"type:bigint"`
	CTR       *float64 `json:"ctr" gorm:"type:double precision"`
	Retention *float64 `json:"retention" gorm:"type:double precision"`

	CreatedAt  time.Time  `json:"created_at" gorm:"type:timestamptz;not null;default:CURRENT_TIMESTAMP"`
	UploadedAt *time.Time `json:"uploaded_at" gorm:"type:timestamptz"`
	ErrorLog   *string    `json:"error_log" gorm:"type:text"`
}

func (Video) TableName() string {
	return "videos"
}
