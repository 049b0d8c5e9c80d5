package dto

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/andreyxaxa/Photo-Pipeline/internal/entity"
	"github.com/andreyxaxa/Photo-Pipeline/pkg/types/errs"
	"github.com/aws/aws-lambda-go/events"
)

// Batch is one notification split by what happens to each record: uploads
// to process, non-create records to skip and records that are failed
// without reaching the pipeline.
type Batch struct {
	Created  []entity.UploadEvent
	Skipped  []entity.UploadEvent
	Rejected []entity.EventResult
}

func (b *Batch) Len() int {
	return len(b.Created) + len(b.Skipped) + len(b.Rejected)
}

// Outcome appends the rejected records to the result of processing Created.
func (b *Batch) Outcome(res *entity.BatchResult) *entity.BatchResult {
	out := &entity.BatchResult{Results: make([]entity.EventResult, 0, len(res.Results)+len(b.Rejected))}
	out.Results = append(out.Results, res.Results...)
	out.Results = append(out.Results, b.Rejected...)
	return out
}

// rawRecord mirrors the fields of an S3 record that we read. Unlike
// events.S3Object it does not decode the key while unmarshaling, so one bad
// key cannot fail the whole document.
type rawRecord struct {
	EventName    string `json:"eventName"`
	UserIdentity struct {
		PrincipalID string `json:"principalId"`
	} `json:"userIdentity"`
	S3 struct {
		Bucket struct {
			Name string `json:"name"`
		} `json:"bucket"`
		Object struct {
			Key string `json:"key"`
		} `json:"object"`
	} `json:"s3"`
}

func (r rawRecord) event() events.S3EventRecord {
	return events.S3EventRecord{
		EventName:   r.EventName,
		PrincipalID: events.S3UserIdentity{PrincipalID: r.UserIdentity.PrincipalID},
		S3: events.S3Entity{
			Bucket: events.S3Bucket{Name: r.S3.Bucket.Name},
			Object: events.S3Object{Key: r.S3.Object.Key},
		},
	}
}

// Decode reads an S3 style bucket notification document. S3, MinIO and
// Garage all emit {"Records":[...]} in this shape. Only a document that is
// not JSON or has no records is an error; a bad record is rejected alone.
func Decode(data []byte) (*Batch, error) {
	var doc struct {
		Records []rawRecord `json:"Records"`
	}

	err := json.Unmarshal(data, &doc)
	if err != nil {
		return nil, fmt.Errorf("dto - Decode - json.Unmarshal: %w", err)
	}

	n := events.S3Event{Records: make([]events.S3EventRecord, 0, len(doc.Records))}
	for _, rec := range doc.Records {
		n.Records = append(n.Records, rec.event())
	}

	return FromEvent(n)
}

// FromEvent splits the records of an already decoded S3 event.
func FromEvent(n events.S3Event) (*Batch, error) {
	if len(n.Records) == 0 {
		return nil, fmt.Errorf("dto - FromEvent: %w", errs.ErrNoRecords)
	}

	b := &Batch{}

	for _, rec := range n.Records {
		event := entity.UploadEvent{
			EventName:   rec.EventName,
			Bucket:      rec.S3.Bucket.Name,
			SourceKey:   rec.S3.Object.Key,
			UserID:      UserID(rec.PrincipalID.PrincipalID),
			PrincipalID: rec.PrincipalID.PrincipalID,
		}

		if !IsObjectCreated(rec.EventName) {
			if key, err := url.QueryUnescape(event.SourceKey); err == nil {
				event.SourceKey = key
			}
			b.Skipped = append(b.Skipped, event)
			continue
		}

		err := resolve(&event)
		if err != nil {
			b.Rejected = append(b.Rejected, entity.EventResult{Event: event, Err: err})
			continue
		}

		b.Created = append(b.Created, event)
	}

	return b, nil
}

// resolve decodes the object key in place and checks the event can produce
// well formed storage keys.
func resolve(event *entity.UploadEvent) error {
	key, err := url.QueryUnescape(event.SourceKey)
	if err != nil {
		return fmt.Errorf("dto - resolve - url.QueryUnescape %q: %w: %v", event.SourceKey, errs.ErrInvalidRecord, err)
	}
	event.SourceKey = key

	if key == "" {
		return fmt.Errorf("dto - resolve - empty object key: %w", errs.ErrInvalidRecord)
	}

	if event.UserID == "" {
		return fmt.Errorf("dto - resolve - no user id in principal %q: %w", event.PrincipalID, errs.ErrInvalidRecord)
	}

	return nil
}

// IsObjectCreated accepts both the AWS ("ObjectCreated:Put") and the MinIO
// ("s3:ObjectCreated:Put") spelling.
func IsObjectCreated(eventName string) bool {
	return strings.HasPrefix(strings.TrimPrefix(eventName, "s3:"), "ObjectCreated")
}

// UserID is the last ':' separated segment of the principal id
// ("AWS:AIDAEXAMPLE:alice" -> "alice"). Empty when the id is empty or ends
// with ':'.
func UserID(principalID string) string {
	i := strings.LastIndex(principalID, ":")
	if i < 0 {
		return principalID
	}
	return principalID[i+1:]
}
