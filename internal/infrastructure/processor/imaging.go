package processor

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"

	"github.com/andreyxaxa/Photo-Pipeline/internal/entity"
	"github.com/andreyxaxa/Photo-Pipeline/pkg/types/errs"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // register WebP decoder for uploads
)

const (
	ContentTypeJPEG = "image/jpeg"
	ExtJPEG         = "jpg"

	_defaultJPEGQuality = 85
	_defaultMaxPixels   = 100_000_000
)

type Resizer struct {
	quality   int
	maxPixels int64
}

func New(opts ...Option) *Resizer {
	r := &Resizer{
		quality:   _defaultJPEGQuality,
		maxPixels: _defaultMaxPixels,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Resize decodes r, scales it down so the longer edge equals size (smaller
// images are kept as is) and re-encodes it as JPEG.
func (p *Resizer) Resize(ctx context.Context, r io.Reader, size int) (*entity.DerivativeResult, error) {
	if size <= 0 {
		return nil, fmt.Errorf("Resizer - Resize - size %d: %w", size, errs.ErrInvalidSize)
	}

	img, err := p.decodeImage(r)
	if err != nil {
		return nil, fmt.Errorf("Resizer - Resize - decodeImage: %w", err)
	}

	if err = ctx.Err(); err != nil {
		return nil, fmt.Errorf("Resizer - Resize: %w", err)
	}

	resized := imaging.Fit(img, size, size, imaging.Lanczos)

	data, err := p.encodeImage(resized)
	if err != nil {
		return nil, fmt.Errorf("Resizer - Resize - encodeImage: %w", err)
	}

	bounds := resized.Bounds()

	return &entity.DerivativeResult{
		Data:   data,
		Size:   int64(len(data)),
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}

// decodeImage reads the header first and refuses images whose declared
// dimensions exceed maxPixels, before any pixel buffer is allocated.
func (p *Resizer) decodeImage(r io.Reader) (image.Image, error) {
	var head bytes.Buffer

	cfg, _, err := image.DecodeConfig(io.TeeReader(r, &head))
	if err != nil {
		return nil, fmt.Errorf("Resizer - decodeImage - image.DecodeConfig: %w: %v", errs.ErrDecode, err)
	}

	if pixels := int64(cfg.Width) * int64(cfg.Height); pixels > p.maxPixels {
		return nil, fmt.Errorf("Resizer - decodeImage - %dx%d exceeds %d pixels: %w",
			cfg.Width, cfg.Height, p.maxPixels, errs.ErrDecode)
	}

	img, err := imaging.Decode(io.MultiReader(&head, r), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("Resizer - decodeImage - imaging.Decode: %w: %v", errs.ErrDecode, err)
	}

	return img, nil
}

func (p *Resizer) encodeImage(img image.Image) ([]byte, error) {
	var buf bytes.Buffer

	err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(p.quality))
	if err != nil {
		return nil, fmt.Errorf("Resizer - encodeImage - imaging.Encode: %w", err)
	}

	return buf.Bytes(), nil
}
