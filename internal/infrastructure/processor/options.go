package processor

type Option func(*Resizer)

// JPEGQuality sets the encoder quality, 1-100. Out of range values are ignored.
func JPEGQuality(q int) Option {
	return func(r *Resizer) {
		if q >= 1 && q <= 100 {
			r.quality = q
		}
	}
}

// MaxPixels caps width x height of accepted images. Non-positive values are
// ignored.
func MaxPixels(n int64) Option {
	return func(r *Resizer) {
		if n > 0 {
			r.maxPixels = n
		}
	}
}
