package entity

import (
	"bytes"
	"io"
	"time"

	"github.com/andreyxaxa/Photo-Pipeline/pkg/optional"
)

// UploadEvent is one record of an upload notification.
type UploadEvent struct {
	EventName   string `json:"event_name"`
	Bucket      string `json:"bucket"`
	SourceKey   string `json:"source_key"`
	UserID      string `json:"user_id"`
	PrincipalID string `json:"principal_id"`
}

// ImageMetadata is what could be read from the embedded EXIF block. Every
// field may be absent.
type ImageMetadata struct {
	PhotoTaken optional.Value[time.Time]
	MadeBy     optional.Value[string]
	Model      optional.Value[string]
}

// DerivativeResult is one re-encoded rendition of the upload.
type DerivativeResult struct {
	Data   []byte
	Size   int64
	Width  int
	Height int
}

func (d *DerivativeResult) Reader() io.Reader {
	return bytes.NewReader(d.Data)
}

// PhotoRecord is the metadata entry persisted per processed upload. Its
// identity is (UserID, PhotoKey).
type PhotoRecord struct {
	UserID         string
	PhotoKey       string
	PhotoTakenDate string
	PhotoTakenTime string
	ThumbnailKey   string
	Bucket         string
	PrincipalID    string
	SrcPhotoName   string

	MadeBy  optional.Value[string]
	Model   optional.Value[string]
	Warning optional.Value[string]
}
