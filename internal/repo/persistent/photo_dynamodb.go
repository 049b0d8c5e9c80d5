package persistent

import (
	"context"
	"fmt"

	"github.com/andreyxaxa/Photo-Pipeline/internal/entity"
	"github.com/andreyxaxa/Photo-Pipeline/pkg/dynamo"
	"github.com/andreyxaxa/Photo-Pipeline/pkg/optional"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	// Attributes
	userIDAttr         = "userId"
	photoKeyAttr       = "photoKey"
	photoTakenDateAttr = "photoTakenDate"
	photoTakenTimeAttr = "photoTakenTime"
	thumbnailKeyAttr   = "thumbnailKey"
	bucketAttr         = "bucket"
	principalIDAttr    = "principalId"
	srcPhotoNameAttr   = "srcPhotoName"
	madeByAttr         = "madeBy"
	modelAttr          = "model"
	warningAttr        = "warning"
)

// DynamoPhotoRecordRepo stores records in a table with hash key userId and
// range key photoKey.
type DynamoPhotoRecordRepo struct {
	*dynamo.Dynamo
	table string
}

func NewDynamoPhotoRecordRepo(d *dynamo.Dynamo, table string) *DynamoPhotoRecordRepo {
	return &DynamoPhotoRecordRepo{d, table}
}

func (r *DynamoPhotoRecordRepo) Put(ctx context.Context, record *entity.PhotoRecord) error {
	_, err := r.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      photoItem(record),
	})
	if err != nil {
		return fmt.Errorf("DynamoPhotoRecordRepo - Put - r.Client.PutItem: %w", err)
	}

	return nil
}

// photoItem leaves absent optional attributes out of the item.
func photoItem(record *entity.PhotoRecord) map[string]types.AttributeValue {
	item := map[string]types.AttributeValue{
		userIDAttr:         stringAttr(record.UserID),
		photoKeyAttr:       stringAttr(record.PhotoKey),
		photoTakenDateAttr: stringAttr(record.PhotoTakenDate),
		photoTakenTimeAttr: stringAttr(record.PhotoTakenTime),
		thumbnailKeyAttr:   stringAttr(record.ThumbnailKey),
		bucketAttr:         stringAttr(record.Bucket),
		principalIDAttr:    stringAttr(record.PrincipalID),
		srcPhotoNameAttr:   stringAttr(record.SrcPhotoName),
	}

	putOptional(item, madeByAttr, record.MadeBy)
	putOptional(item, modelAttr, record.Model)
	putOptional(item, warningAttr, record.Warning)

	return item
}

func stringAttr(s string) types.AttributeValue {
	return &types.AttributeValueMemberS{Value: s}
}

func putOptional(item map[string]types.AttributeValue, name string, v optional.Value[string]) {
	if s, ok := v.Get(); ok {
		item[name] = stringAttr(s)
	}
}
