package entities

import (
	"time"

	"github.com/google/uuid"
	"youtube-automation/constant"
)

// StageLog is an append-only audit record of one stage transition.
// Rows are never updated or deleted.
type StageLog struct {
	ID        uuid.UUID          `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	VideoId   uuid.UUID          `json:"video_id" gorm:"type:uuid;not null;index:idx_stage_logs_video_id"`
	Stage     constant.Stage     `json:"stage" gorm:"type:varchar(30);not null"`
	Status    constant.LogStatus `json:"status" gorm:"type:varchar(20);not null"`
	Message   string             `json:"message" gorm:"type:text"`
	Timestamp time.Time          `json:"timestamp" gorm:"type:timestamptz;not null;default:CURRENT_TIMESTAMP"`
}

func (StageLog) TableName() string {
	return "stage_logs"
}
