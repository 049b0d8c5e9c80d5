package dto

import (
	"testing"

	"github.com/andreyxaxa/Photo-Pipeline/internal/entity"
	"github.com/andreyxaxa/Photo-Pipeline/pkg/types/errs"
	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const notificationJSON = `{
  "Records": [
    {
      "eventName": "ObjectCreated:Put",
      "userIdentity": {"principalId": "AWS:AIDAEXAMPLE:alice"},
      "s3": {"bucket": {"name": "uploads"}, "object": {"key": "holiday/IMG+0001%282%29.jpg", "size": 1024}}
    },
    {
      "eventName": "s3:ObjectRemoved:Delete",
      "userIdentity": {"principalId": "bob"},
      "s3": {"bucket": {"name": "uploads"}, "object": {"key": "old.jpg"}}
    },
    {
      "eventName": "s3:ObjectCreated:CompleteMultipartUpload",
      "userIdentity": {"principalId": "bob"},
      "s3": {"bucket": {"name": "uploads"}, "object": {"key": "big.jpg"}}
    }
  ]
}`

func TestDecode(t *testing.T) {
	b, err := Decode([]byte(notificationJSON))
	require.NoError(t, err)

	require.Len(t, b.Created, 2)
	assert.Equal(t, "uploads", b.Created[0].Bucket)
	assert.Equal(t, "holiday/IMG 0001(2).jpg", b.Created[0].SourceKey)
	assert.Equal(t, "alice", b.Created[0].UserID)
	assert.Equal(t, "AWS:AIDAEXAMPLE:alice", b.Created[0].PrincipalID)
	assert.Equal(t, "big.jpg", b.Created[1].SourceKey)
	assert.Equal(t, "bob", b.Created[1].UserID)

	require.Len(t, b.Skipped, 1)
	assert.Equal(t, "old.jpg", b.Skipped[0].SourceKey)

	assert.Empty(t, b.Rejected)
	assert.Equal(t, 3, b.Len())
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode([]byte(`{"Records": [`))
	assert.Error(t, err)

	_, err = Decode([]byte(`{"Records": []}`))
	assert.ErrorIs(t, err, errs.ErrNoRecords)

	_, err = FromEvent(events.S3Event{})
	assert.ErrorIs(t, err, errs.ErrNoRecords)
}

func TestDecodeRejectsBadRecordsAlone(t *testing.T) {
	b, err := Decode([]byte(`{"Records": [
		{"eventName": "ObjectCreated:Put", "userIdentity": {"principalId": "AWS:X:alice"}, "s3": {"object": {"key": "good.jpg"}}},
		{"eventName": "ObjectCreated:Put", "userIdentity": {"principalId": "AWS:X:alice"}, "s3": {"object": {"key": "bad%zz.jpg"}}},
		{"eventName": "ObjectCreated:Put", "userIdentity": {"principalId": "AWS:X:"}, "s3": {"object": {"key": "orphan.jpg"}}},
		{"eventName": "ObjectCreated:Put", "userIdentity": {"principalId": ""}, "s3": {"object": {"key": "anon.jpg"}}},
		{"eventName": "ObjectCreated:Put", "userIdentity": {"principalId": "bob"}, "s3": {"object": {"key": ""}}},
		{"eventName": "ObjectRemoved:Delete", "userIdentity": {"principalId": ""}, "s3": {"object": {"key": "gone%zz.jpg"}}}
	]}`))
	require.NoError(t, err)

	require.Len(t, b.Created, 1)
	assert.Equal(t, "good.jpg", b.Created[0].SourceKey)

	require.Len(t, b.Skipped, 1)
	assert.Equal(t, "gone%zz.jpg", b.Skipped[0].SourceKey)

	require.Len(t, b.Rejected, 4)
	keys := make([]string, 0, len(b.Rejected))
	for _, r := range b.Rejected {
		assert.ErrorIs(t, r.Err, errs.ErrInvalidRecord)
		assert.Nil(t, r.Record)
		keys = append(keys, r.Event.SourceKey)
	}
	assert.Equal(t, []string{"bad%zz.jpg", "orphan.jpg", "anon.jpg", ""}, keys)
}

func TestFromEventDecodesKeys(t *testing.T) {
	b, err := FromEvent(events.S3Event{Records: []events.S3EventRecord{{
		EventName:   "ObjectCreated:Put",
		PrincipalID: events.S3UserIdentity{PrincipalID: "alice"},
		S3:          events.S3Entity{Object: events.S3Object{Key: "my+photo%21.jpg"}},
	}}})
	require.NoError(t, err)

	require.Len(t, b.Created, 1)
	assert.Equal(t, "my photo!.jpg", b.Created[0].SourceKey)
}

func TestOutcomeAppendsRejected(t *testing.T) {
	b := &Batch{Rejected: []entity.EventResult{{Event: entity.UploadEvent{SourceKey: "bad"}, Err: errs.ErrInvalidRecord}}}
	processed := &entity.BatchResult{Results: []entity.EventResult{{Event: entity.UploadEvent{SourceKey: "ok"}, Record: &entity.PhotoRecord{}}}}

	out := b.Outcome(processed)
	require.Len(t, out.Results, 2)
	assert.Equal(t, "ok", out.Results[0].Event.SourceKey)
	assert.Equal(t, "bad", out.Results[1].Event.SourceKey)
	assert.Equal(t, 1, out.Failed())
	assert.ErrorIs(t, out.Err(), errs.ErrInvalidRecord)
	assert.Len(t, processed.Results, 1)
}

func TestUserID(t *testing.T) {
	cases := map[string]string{
		"AWS:AIDAEXAMPLE:alice": "alice",
		"alice":                 "alice",
		"A1B2C3":                "A1B2C3",
		"trailing:":             "",
		"":                      "",
	}

	for in, want := range cases {
		assert.Equal(t, want, UserID(in), in)
	}
}

func TestIsObjectCreated(t *testing.T) {
	assert.True(t, IsObjectCreated("ObjectCreated:Put"))
	assert.True(t, IsObjectCreated("s3:ObjectCreated:Copy"))
	assert.False(t, IsObjectCreated("ObjectRemoved:Delete"))
	assert.False(t, IsObjectCreated(""))
}
