package tracing

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledIsNoop(t *testing.T) {
	tr, err := New(false)
	require.NoError(t, err)

	_, span := tr.Tracer("test").Start(context.Background(), "op")
	span.End()

	assert.False(t, span.SpanContext().IsValid())
	assert.NoError(t, tr.Shutdown(context.Background()))
}

func TestEnabledExportsSpans(t *testing.T) {
	var buf bytes.Buffer

	tr, err := New(true, Writer(&buf), ServiceName("photo-test"))
	require.NoError(t, err)

	_, span := tr.Tracer("test").Start(context.Background(), "photo.Process")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	require.NoError(t, tr.Shutdown(context.Background()))
	assert.Contains(t, buf.String(), "photo.Process")
	assert.Contains(t, buf.String(), "photo-test")
}
