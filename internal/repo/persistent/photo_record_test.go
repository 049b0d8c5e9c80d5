package persistent

import (
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/andreyxaxa/Photo-Pipeline/internal/entity"
	"github.com/andreyxaxa/Photo-Pipeline/pkg/optional"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecord() *entity.PhotoRecord {
	return &entity.PhotoRecord{
		UserID:         "alice",
		PhotoKey:       "photos/alice/2020-01-01-10-00-00-36000000-abcd.jpg",
		PhotoTakenDate: "2020-01-01",
		PhotoTakenTime: "10:00:00",
		ThumbnailKey:   "photos/alice/thumbnails/2020-01-01-10-00-00-36000000-abcd.jpg",
		Bucket:         "000-photos",
		PrincipalID:    "AWS:AIDAEXAMPLE:alice",
		SrcPhotoName:   "uploads/IMG_0001.jpg",
	}
}

func attrS(t *testing.T, item map[string]types.AttributeValue, name string) string {
	t.Helper()
	v, ok := item[name].(*types.AttributeValueMemberS)
	require.True(t, ok, "attribute %s is not a string", name)
	return v.Value
}

func TestPhotoItemWithMetadata(t *testing.T) {
	rec := testRecord()
	rec.MadeBy = optional.Some("Canon")
	rec.Model = optional.Some("EOS 5D")

	item := photoItem(rec)

	assert.Len(t, item, 10)
	assert.Equal(t, "alice", attrS(t, item, "userId"))
	assert.Equal(t, rec.PhotoKey, attrS(t, item, "photoKey"))
	assert.Equal(t, "2020-01-01", attrS(t, item, "photoTakenDate"))
	assert.Equal(t, "10:00:00", attrS(t, item, "photoTakenTime"))
	assert.Equal(t, rec.ThumbnailKey, attrS(t, item, "thumbnailKey"))
	assert.Equal(t, "000-photos", attrS(t, item, "bucket"))
	assert.Equal(t, "AWS:AIDAEXAMPLE:alice", attrS(t, item, "principalId"))
	assert.Equal(t, "uploads/IMG_0001.jpg", attrS(t, item, "srcPhotoName"))
	assert.Equal(t, "Canon", attrS(t, item, "madeBy"))
	assert.Equal(t, "EOS 5D", attrS(t, item, "model"))
	assert.NotContains(t, item, "warning")
}

func TestPhotoItemOmitsAbsentAttributes(t *testing.T) {
	rec := testRecord()
	rec.Warning = optional.Some("Missing photo/image metadata to extract")

	item := photoItem(rec)

	assert.Len(t, item, 9)
	assert.NotContains(t, item, "madeBy")
	assert.NotContains(t, item, "model")
	assert.Equal(t, "Missing photo/image metadata to extract", attrS(t, item, "warning"))
}

func TestUpsertPhotoSQL(t *testing.T) {
	rec := testRecord()
	rec.Model = optional.Some("Pixel 7")

	b := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	sql, args, err := upsertPhoto(b, rec).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "INSERT INTO photos")
	assert.Contains(t, sql, "$11")
	assert.Contains(t, sql, "ON CONFLICT (user_id, photo_key) DO UPDATE SET")
	assert.Contains(t, sql, "warning = EXCLUDED.warning")
	assert.NotContains(t, sql, "user_id = EXCLUDED")

	require.Len(t, args, 11)
	assert.Equal(t, "alice", args[0])
	assert.Equal(t, rec.PhotoKey, args[1])
	assert.Nil(t, args[8])
	require.NotNil(t, args[9])
	assert.Equal(t, "Pixel 7", *args[9].(*string))
	assert.Nil(t, args[10])
}
