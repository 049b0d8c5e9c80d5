package exif

import (
	"bytes"
	"io"
	"strings"
	"time"

	"github.com/andreyxaxa/Photo-Pipeline/internal/entity"
	"github.com/andreyxaxa/Photo-Pipeline/pkg/optional"
	goexif "github.com/rwcarlsen/goexif/exif"
)

// EXIF stores local wall-clock time without a zone; it is read as UTC.
const _exifTimeLayout = "2006:01:02 15:04:05"

type MetadataExplorer struct{}

func New() *MetadataExplorer {
	return &MetadataExplorer{}
}

// Explore consumes r and returns the capture metadata it carries. A stream
// without a readable EXIF block is a normal outcome and yields None.
func (e *MetadataExplorer) Explore(r io.Reader) (md optional.Value[entity.ImageMetadata]) {
	body, err := io.ReadAll(r)
	if err != nil {
		return optional.None[entity.ImageMetadata]()
	}

	payload, ok := tiffPayload(body)
	if !ok || !boundedTIFF(payload) {
		return optional.None[entity.ImageMetadata]()
	}

	// goexif indexes tag values without bounds checks on some malformed types
	defer func() {
		if recover() != nil {
			md = optional.None[entity.ImageMetadata]()
		}
	}()

	// goexif returns a nil *Exif only on critical failures; partial parses
	// come back with an error alongside usable tags.
	x, _ := goexif.Decode(bytes.NewReader(payload))
	if x == nil {
		return optional.None[entity.ImageMetadata]()
	}

	return optional.Some(entity.ImageMetadata{
		PhotoTaken: captureTime(x),
		MadeBy:     stringTag(x, goexif.Make),
		Model:      stringTag(x, goexif.Model),
	})
}

func captureTime(x *goexif.Exif) optional.Value[time.Time] {
	for _, field := range []goexif.FieldName{goexif.DateTimeOriginal, goexif.DateTime} {
		s, ok := stringTag(x, field).Get()
		if !ok {
			continue
		}

		t, err := time.ParseInLocation(_exifTimeLayout, s, time.UTC)
		if err != nil {
			continue
		}

		return optional.Some(t)
	}

	return optional.None[time.Time]()
}

func stringTag(x *goexif.Exif, field goexif.FieldName) optional.Value[string] {
	tag, err := x.Get(field)
	if err != nil {
		return optional.None[string]()
	}

	s, err := tag.StringVal()
	if err != nil {
		return optional.None[string]()
	}

	return optional.FromString(strings.TrimSpace(s))
}
