// Package readcache materializes a stream once so several consumers can read
// it from the start independently.
package readcache

import (
	"bytes"
	"fmt"
	"io"

	"github.com/andreyxaxa/Photo-Pipeline/pkg/types/errs"
)

type Buffer struct {
	data []byte
}

// Materialize drains r into memory. A positive limit caps the number of bytes
// accepted; exceeding it returns errs.ErrSourceTooLarge.
func Materialize(r io.Reader, limit int64) (*Buffer, error) {
	if limit > 0 {
		r = io.LimitReader(r, limit+1)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("readcache - Materialize - io.ReadAll: %w", err)
	}

	if limit > 0 && int64(len(data)) > limit {
		return nil, fmt.Errorf("readcache - Materialize: %w", errs.ErrSourceTooLarge)
	}

	return &Buffer{data: data}, nil
}

// NewBuffer wraps already materialized bytes. The slice must not be modified
// afterwards.
func NewBuffer(data []byte) *Buffer {
	return &Buffer{data: data}
}

// NewReader returns a fresh cursor positioned at the first byte.
func (b *Buffer) NewReader() *bytes.Reader {
	return bytes.NewReader(b.data)
}

func (b *Buffer) Len() int64 {
	return int64(len(b.data))
}
