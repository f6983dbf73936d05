package dto

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"youtube-automation/constant"
)

// RunRequest starts one pipeline run. Topic is optional; when set the
// sourcing stage is skipped and the supplied value is used verbatim.
type RunRequest struct {
	ChannelId     uuid.UUID              `json:"channelId"`
	ContentSource constant.ContentSource `json:"contentSource"`
	Topic         string                 `json:"topic"`
}

// RunRequestMessage is the queue payload for asynchronous run dispatch.
type RunRequestMessage struct {
	RequestId     uuid.UUID              `json:"requestId"`
	ChannelId     uuid.UUID              `json:"channelId"`
	ContentSource constant.ContentSource `json:"contentSource"`
	Topic         string                 `json:"topic"`
}

// VideoUpdate is a partial update of a video record. Only non-nil fields are
// written; everything else retains its prior value.
type VideoUpdate struct {
	Topic          *string
	Script         *string
	AudioPath      *string
	VideoPath      *string
	ThumbnailPath  *string
	Title          *string
	Description    *string
	Tags           *string
	Status         *constant.VideoStatus
	Stage          *constant.Stage
	StageProgress  *int
	RequiresReview *bool
	Approved       *bool
	ScheduledTime  *time.Time
	YoutubeId      *string
	Views          *int64
	CTR            *float64
	Retention      *float64
	UploadedAt     *time.Time
	ErrorLog       *string
}

// Fields returns the set fields as a column map for the record store.
func (u VideoUpdate) Fields() map[string]interface{} {
	fields := map[string]interface{}{}
	if u.Topic != nil {
		fields["topic"] = *u.Topic
	}
	if u.Script != nil {
		fields["script"] = *u.Script
	}
	if u.AudioPath != nil {
		fields["audio_path"] = *u.AudioPath
	}
	if u.VideoPath != nil {
		fields["video_path"] = *u.VideoPath
	}
	if u.ThumbnailPath != nil {
		fields["thumbnail_path"] = *u.ThumbnailPath
	}
	if u.Title != nil {
		fields["title"] = *u.Title
	}
	if u.Description != nil {
		fields["description"] = *u.Description
	}
	if u.Tags != nil {
		fields["tags"] = *u.Tags
	}
	if u.Status != nil {
		fields["status"] = *u.Status
	}
	if u.Stage != nil {
		fields["stage"] = *u.Stage
	}
	if u.StageProgress != nil {
		fields["stage_progress"] = *u.StageProgress
	}
	if u.RequiresReview != nil {
		fields["requires_review"] = *u.RequiresReview
	}
	if u.Approved != nil {
		fields["approved"] = *u.Approved
	}
	if u.ScheduledTime != nil {
		fields["scheduled_time"] = *u.ScheduledTime
	}
	if u.YoutubeId != nil {
		fields["youtube_id"] = *u.YoutubeId
	}
	if u.Views != nil {
		fields["views"] = *u.Views
	}
	if u.CTR != nil {
		fields["ctr"] = *u.CTR
	}
	if u.Retention != nil {
		fields["retention"] = *u.Retention
	}
	if u.UploadedAt != nil {
		fields["uploaded_at"] = *u.UploadedAt
	}
	if u.ErrorLog != nil {
		fields["error_log"] = *u.ErrorLog
	}
	return fields
}

// externallyWritable lists the columns an API caller may touch. Orchestrator
// owned columns (stage, stage_progress, status, error_log) are excluded.
var externallyWritable = map[string]bool{
	"topic":           true,
	"thumbnail_path":  true,
	"title":           true,
	"description":     true,
	"tags":            true,
	"requires_review": true,
	"approved":        true,
	"scheduled_time":  true,
	"views":           true,
	"ctr":             true,
	"retention":       true,
}

// ValidateExternalUpdate checks a raw update payload from an API caller.
// Unknown columns and orchestrator owned columns are rejected rather than
// written blindly.
func ValidateExternalUpdate(fields map[string]interface{}) error {
	for name := range fields {
		if !externallyWritable[name] {
			return fmt.Errorf("field %q is not externally writable", name)
		}
	}
	return nil
}

// UpdateFromFields builds a VideoUpdate from a raw API payload, rejecting
// unknown columns, orchestrator owned columns and mistyped values.
func UpdateFromFields(fields map[string]interface{}) (VideoUpdate, error) {
	var update VideoUpdate
	if err := ValidateExternalUpdate(fields); err != nil {
		return update, err
	}

	for name, value := range fields {
		var err error
		switch name {
		case "topic":
			update.Topic, err = asString(name, value)
		case "thumbnail_path":
			update.ThumbnailPath, err = asString(name, value)
		case "title":
			update.Title, err = asString(name, value)
		case "description":
			update.Description, err = asString(name, value)
		case "tags":
			update.Tags, err = asString(name, value)
		case "requires_review":
			update.RequiresReview, err = asBool(name, value)
		case "approved":
			update.Approved, err = asBool(name, value)
		case "scheduled_time":
			update.ScheduledTime, err = asTime(name, value)
		case "views":
			update.Views, err = asInt64(name, value)
		case "ctr":
			update.CTR, err = asFloat(name, value)
		case "retention":
			update.Retention, err = asFloat(name, value)
		}
		if err != nil {
			return VideoUpdate{}, err
		}
	}
	return update, nil
}

func asString(name string, value interface{}) (*string, error) {
	s, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("field %q must be a string", name)
	}
	return &s, nil
}

func asBool(name string, value interface{}) (*bool, error) {
	b, ok := value.(bool)
	if !ok {
		return nil, fmt.Errorf("field %q must be a boolean", name)
	}
	return &b, nil
}

func asFloat(name string, value interface{}) (*float64, error) {
	f, ok := value.(float64)
	if !ok {
		return nil, fmt.Errorf("field %q must be a number", name)
	}
	return &f, nil
}

func asInt64(name string, value interface{}) (*int64, error) {
	f, ok := value.(float64)
	if !ok || f != math.Trunc(f) {
		return nil, fmt.Errorf("field %q must be an integer", name)
	}
	n := int64(f)
	return &n, nil
}

func asTime(name string, value interface{}) (*time.Time, error) {
	s, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("field %q must be an RFC3339 timestamp", name)
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("field %q must be an RFC3339 timestamp: %w", name, err)
	}
	return &t, nil
}

// Stats aggregates the video table for dashboards. Averages cover only
// records whose metrics have been populated.
type Stats struct {
	TotalVideos  int64   `json:"total_videos"`
	Pending      int64   `json:"pending"`
	Ready        int64   `json:"ready"`
	Uploaded     int64   `json:"uploaded"`
	Failed       int64   `json:"failed"`
	TotalViews   int64   `json:"total_views"`
	AvgCTR       float64 `json:"avg_ctr"`
	AvgRetention float64 `json:"avg_retention"`
}
