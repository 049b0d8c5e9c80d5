package persistent

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/andreyxaxa/Photo-Pipeline/internal/entity"
	"github.com/andreyxaxa/Photo-Pipeline/pkg/optional"
	"github.com/andreyxaxa/Photo-Pipeline/pkg/postgres"
)

const (
	// Table
	photosTable = "photos"

	// Columns
	userIDColumn         = "user_id"
	photoKeyColumn       = "photo_key"
	photoTakenDateColumn = "photo_taken_date"
	photoTakenTimeColumn = "photo_taken_time"
	thumbnailKeyColumn   = "thumbnail_key"
	bucketColumn         = "bucket"
	principalIDColumn    = "principal_id"
	srcPhotoNameColumn   = "src_photo_name"
	madeByColumn         = "made_by"
	modelColumn          = "model"
	warningColumn        = "warning"
)

// PostgresPhotoRecordRepo keeps records in the photos table. Put overwrites
// an existing row with the same (user_id, photo_key), like DynamoDB PutItem.
type PostgresPhotoRecordRepo struct {
	*postgres.Postgres
}

func NewPostgresPhotoRecordRepo(pg *postgres.Postgres) *PostgresPhotoRecordRepo {
	return &PostgresPhotoRecordRepo{pg}
}

func (r *PostgresPhotoRecordRepo) Put(ctx context.Context, record *entity.PhotoRecord) error {
	sql, args, err := upsertPhoto(r.Builder, record).ToSql()
	if err != nil {
		return fmt.Errorf("PostgresPhotoRecordRepo - Put - r.Builder.ToSql: %w", err)
	}

	_, err = r.Pool.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("PostgresPhotoRecordRepo - Put - r.Pool.Exec: %w", err)
	}

	return nil
}

func upsertPhoto(b squirrel.StatementBuilderType, record *entity.PhotoRecord) squirrel.InsertBuilder {
	return b.
		Insert(photosTable).
		Columns(
			userIDColumn,
			photoKeyColumn,
			photoTakenDateColumn,
			photoTakenTimeColumn,
			thumbnailKeyColumn,
			bucketColumn,
			principalIDColumn,
			srcPhotoNameColumn,
			madeByColumn,
			modelColumn,
			warningColumn,
		).
		Values(
			record.UserID,
			record.PhotoKey,
			record.PhotoTakenDate,
			record.PhotoTakenTime,
			record.ThumbnailKey,
			record.Bucket,
			record.PrincipalID,
			record.SrcPhotoName,
			nullable(record.MadeBy),
			nullable(record.Model),
			nullable(record.Warning),
		).
		Suffix(fmt.Sprintf(
			"ON CONFLICT (%s, %s) DO UPDATE SET "+
				"%[3]s = EXCLUDED.%[3]s, %[4]s = EXCLUDED.%[4]s, %[5]s = EXCLUDED.%[5]s, "+
				"%[6]s = EXCLUDED.%[6]s, %[7]s = EXCLUDED.%[7]s, %[8]s = EXCLUDED.%[8]s, "+
				"%[9]s = EXCLUDED.%[9]s, %[10]s = EXCLUDED.%[10]s, %[11]s = EXCLUDED.%[11]s",
			userIDColumn, photoKeyColumn,
			photoTakenDateColumn, photoTakenTimeColumn, thumbnailKeyColumn,
			bucketColumn, principalIDColumn, srcPhotoNameColumn,
			madeByColumn, modelColumn, warningColumn,
		))
}

// nullable maps an absent value to SQL NULL.
func nullable(v optional.Value[string]) *string {
	s, ok := v.Get()
	if !ok {
		return nil
	}
	return &s
}
