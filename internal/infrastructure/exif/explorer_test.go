package exif

import (
	"bytes"
	"testing"
	"time"

	"github.com/andreyxaxa/Photo-Pipeline/internal/fixture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExploreFullMetadata(t *testing.T) {
	body := fixture.JPEGWithExif(64, 48, fixture.Exif{
		Make:             "Canon",
		Model:            "EOS 5D Mark IV",
		DateTimeOriginal: "2020:01:01 10:00:00",
	})

	md, ok := New().Explore(bytes.NewReader(body)).Get()
	require.True(t, ok)

	taken, ok := md.PhotoTaken.Get()
	require.True(t, ok)
	assert.True(t, taken.Equal(time.Date(2020, 1, 1, 10, 0, 0, 0, time.UTC)))
	assert.Equal(t, time.UTC, taken.Location())

	assert.Equal(t, "Canon", md.MadeBy.OrElse(""))
	assert.Equal(t, "EOS 5D Mark IV", md.Model.OrElse(""))
}

func TestExploreFallsBackToDateTime(t *testing.T) {
	body := fixture.JPEGWithExif(32, 32, fixture.Exif{
		Make:     "Nikon",
		DateTime: "2019:07:14 08:30:15",
	})

	md, ok := New().Explore(bytes.NewReader(body)).Get()
	require.True(t, ok)

	taken, ok := md.PhotoTaken.Get()
	require.True(t, ok)
	assert.Equal(t, "2019-07-14T08:30:15Z", taken.Format(time.RFC3339))
}

func TestExploreWithoutCaptureTime(t *testing.T) {
	body := fixture.JPEGWithExif(32, 32, fixture.Exif{Make: "Apple", Model: "iPhone 12"})

	md, ok := New().Explore(bytes.NewReader(body)).Get()
	require.True(t, ok)

	assert.False(t, md.PhotoTaken.IsPresent())
	assert.Equal(t, "Apple", md.MadeBy.OrElse(""))
	assert.Equal(t, "iPhone 12", md.Model.OrElse(""))
}

func TestExploreUnparseableDateIsAbsent(t *testing.T) {
	body := fixture.JPEGWithExif(32, 32, fixture.Exif{
		Model:            "X100V",
		DateTimeOriginal: "0000:00:00 00:00:00",
	})

	md, ok := New().Explore(bytes.NewReader(body)).Get()
	require.True(t, ok)
	assert.False(t, md.PhotoTaken.IsPresent())
	assert.False(t, md.MadeBy.IsPresent())
	assert.Equal(t, "X100V", md.Model.OrElse(""))
}

func TestExploreNoMetadata(t *testing.T) {
	cases := map[string][]byte{
		"plain jpeg":  fixture.JPEG(32, 32),
		"png":         fixture.PNG(32, 32),
		"not image":   fixture.Corrupt(),
		"broken exif": fixture.JPEGWithBrokenExif(32, 32),
		"empty":       {},
		"truncated":   fixture.JPEGWithExif(32, 32, fixture.Exif{Make: "Canon"})[:10],
		"huge count":  fixture.JPEGWithOversizedTag(32, 32),
		"looped ifd":  fixture.JPEGWithLoopedIFD(32, 32),
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.False(t, New().Explore(bytes.NewReader(body)).IsPresent())
			})
		})
	}
}

func TestBoundedTIFF(t *testing.T) {
	valid := fixture.TIFF(fixture.Exif{Make: "Canon", DateTimeOriginal: "2020:01:01 10:00:00"})
	assert.True(t, boundedTIFF(valid))

	// value offset of the Make string pushed past the end
	shifted := append([]byte(nil), valid...)
	shifted[8+2+8] = 0xF0
	assert.False(t, boundedTIFF(shifted))

	assert.False(t, boundedTIFF([]byte("II*\x00")))
	assert.False(t, boundedTIFF([]byte("XX*\x00\x08\x00\x00\x00")))
}

func TestTIFFPayload(t *testing.T) {
	tiff := fixture.TIFF(fixture.Exif{Model: "X100V"})

	got, ok := tiffPayload(fixture.JPEGWithExif(8, 8, fixture.Exif{Model: "X100V"}))
	require.True(t, ok)
	assert.Equal(t, tiff, got)

	got, ok = tiffPayload(tiff)
	require.True(t, ok)
	assert.Equal(t, tiff, got)

	_, ok = tiffPayload(fixture.JPEG(8, 8))
	assert.False(t, ok)
}

func TestExploreRawTIFF(t *testing.T) {
	md, ok := New().Explore(bytes.NewReader(fixture.TIFF(fixture.Exif{Make: "Leica"}))).Get()
	require.True(t, ok)
	assert.Equal(t, "Leica", md.MadeBy.OrElse(""))
}
