package pipeline

import (
	"context"
	"fmt"
	"time"
)

// uploadScheduler picks the next free slot from a configured list of
// preferred times of day. No network upload happens here.
type uploadScheduler struct {
	uploadTimes []string
	now         func() time.Time
}

func NewUploadScheduler(uploadTimes []string) UploadScheduler {
	return &uploadScheduler{
		uploadTimes: uploadTimes,
		now:         time.Now,
	}
}

func (s *uploadScheduler) Schedule(ctx context.Context, videoPath string, metadata *Metadata) (*Schedule, error) {
	if metadata == nil || metadata.Title == "" {
		return nil, fmt.Errorf("scheduler requires metadata with a title")
	}
	if videoPath == "" {
		return nil, fmt.Errorf("scheduler requires a video path")
	}

	scheduledTime, err := s.nextSlot()
	if err != nil {
		return nil, err
	}

	return &Schedule{
		ScheduledTime: scheduledTime,
		Title:         metadata.Title,
		Description:   metadata.Description,
	}, nil
}

// nextSlot returns the first preferred time of day still ahead of now,
// rolling over to the first slot of the next day when none remain.
func (s *uploadScheduler) nextSlot() (time.Time, error) {
	now := s.now()

	slots := make([]time.Time, 0, len(s.uploadTimes))
	for _, raw := range s.uploadTimes {
		parsed, err := time.Parse("15:04", raw)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid upload time %q: %w", raw, err)
		}
		slot := time.Date(now.Year(), now.Month(), now.Day(), parsed.Hour(), parsed.Minute(), 0, 0, now.Location())
		slots = append(slots, slot)
	}
	if len(slots) == 0 {
		return time.Time{}, fmt.Errorf("no upload times configured")
	}

	for _, slot := range slots {
		if slot.After(now) {
			return slot, nil
		}
	}

	return slots[0].AddDate(0, 0, 1), nil
}
