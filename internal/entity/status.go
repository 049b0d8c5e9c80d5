package entity

type Status string

const (
	Processed Status = "processed"
	Failed    Status = "failed"
	Skipped   Status = "skipped"
	Rejected  Status = "rejected" // record failed before reaching the pipeline
)

// FallbackReason tells why the key timestamp is the processing time instead
// of the capture time.
type FallbackReason string

const (
	NoMetadata    FallbackReason = "no_metadata"
	NoCaptureTime FallbackReason = "no_capture_time"
)
