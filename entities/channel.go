package entities

import (
	"time"

	"github.com/google/uuid"
)

type Channel struct {
	ID               uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name             string    `json:"name" gorm:"type:varchar(255);not null"`
	Niche            string    `json:"niche" gorm:"type:varchar(100)"`
	YoutubeChannelId *string   `json:"youtube_channel_id" gorm:"type:varchar(50)"`
	UploadFrequency  string    `json:"upload_frequency" gorm:"type:varchar(20);not null;default:'daily'"`
	Status           string    `json:"status" gorm:"type:varchar(20);not null;default:'active'"`
	CreatedAt        time.Time `json:"created_at" gorm:"type:timestamptz;not null;default:CURRENT_TIMESTAMP"`
}

func (Channel) TableName() string {
	return "channels"
}
