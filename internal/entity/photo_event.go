package entity

import (
	"time"

	"github.com/google/uuid"
)

// PhotoProcessedEvent is published after a record has been stored.
type PhotoProcessedEvent struct {
	ID           uuid.UUID `json:"id"`
	UserID       string    `json:"user_id"`
	PhotoKey     string    `json:"photo_key"`
	ThumbnailKey string    `json:"thumbnail_key"`
	Bucket       string    `json:"bucket"`
	SrcPhotoName string    `json:"src_photo_name"`
	Warning      string    `json:"warning,omitempty"`
	ProcessedAt  time.Time `json:"processed_at"`
}

func NewPhotoProcessedEvent(rec *PhotoRecord, at time.Time) *PhotoProcessedEvent {
	return &PhotoProcessedEvent{
		ID:           uuid.New(),
		UserID:       rec.UserID,
		PhotoKey:     rec.PhotoKey,
		ThumbnailKey: rec.ThumbnailKey,
		Bucket:       rec.Bucket,
		SrcPhotoName: rec.SrcPhotoName,
		Warning:      rec.Warning.OrElse(""),
		ProcessedAt:  at,
	}
}
