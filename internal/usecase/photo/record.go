package photo

import (
	"time"

	"github.com/andreyxaxa/Photo-Pipeline/internal/entity"
	"github.com/andreyxaxa/Photo-Pipeline/pkg/optional"
)

const (
	WarningNoMetadata    = "Missing photo/image metadata to extract"
	WarningNoCaptureTime = "Missing photo taken date - date/time of the upload event has been used as a default"

	photoTakenDateLayout = "2006-01-02"
	// fraction printed only when non-zero, trailing zeros trimmed
	photoTakenTimeLayout = "15:04:05.999999999"
)

// resolveTimestamp returns the capture time when known, otherwise clock() in
// UTC together with the reason for the fallback.
func resolveTimestamp(
	md optional.Value[entity.ImageMetadata],
	clock func() time.Time,
) (time.Time, optional.Value[entity.FallbackReason]) {
	meta, ok := md.Get()
	if !ok {
		return clock().UTC(), optional.Some(entity.NoMetadata)
	}

	taken, ok := meta.PhotoTaken.Get()
	if !ok {
		return clock().UTC(), optional.Some(entity.NoCaptureTime)
	}

	return taken.UTC(), optional.None[entity.FallbackReason]()
}

func assembleRecord(
	event entity.UploadEvent,
	bucket string,
	taken time.Time,
	photoKey, thumbnailKey string,
	md optional.Value[entity.ImageMetadata],
) *entity.PhotoRecord {
	record := &entity.PhotoRecord{
		UserID:         event.UserID,
		PhotoKey:       photoKey,
		PhotoTakenDate: taken.Format(photoTakenDateLayout),
		PhotoTakenTime: taken.Format(photoTakenTimeLayout),
		ThumbnailKey:   thumbnailKey,
		Bucket:         bucket,
		PrincipalID:    event.PrincipalID,
		SrcPhotoName:   event.SourceKey,
	}

	meta, ok := md.Get()
	if !ok {
		record.Warning = optional.Some(WarningNoMetadata)
		return record
	}

	record.MadeBy = meta.MadeBy
	record.Model = meta.Model

	if !meta.PhotoTaken.IsPresent() {
		record.Warning = optional.Some(WarningNoCaptureTime)
	}

	return record
}
