package errs

import "errors"

var (
	ErrDecode             = errors.New("image decode failed")
	ErrInvalidSize        = errors.New("invalid target size")
	ErrSourceTooLarge     = errors.New("source object too large")
	ErrNoRecords          = errors.New("notification has no records")
	ErrInvalidRecord      = errors.New("invalid notification record")
	ErrUnsupportedBackend = errors.New("unsupported backend")
	ErrReceiverClosed     = errors.New("event receiver closed")
)
