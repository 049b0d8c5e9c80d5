package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/andreyxaxa/Photo-Pipeline/internal/entity"
	"github.com/andreyxaxa/Photo-Pipeline/internal/infrastructure/metrics"
	"github.com/andreyxaxa/Photo-Pipeline/pkg/logger"
	"github.com/andreyxaxa/Photo-Pipeline/pkg/types/errs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeReceiver struct {
	msgs chan kafka.Message

	// drained makes ReadEvent report a closed reader once msgs is empty.
	drained bool

	mu        sync.Mutex
	committed []int64
	closed    bool
}

func newFakeReceiver(msgs ...kafka.Message) *fakeReceiver {
	ch := make(chan kafka.Message, len(msgs))
	for _, m := range msgs {
		ch <- m
	}
	return &fakeReceiver{msgs: ch}
}

func (f *fakeReceiver) ReadEvent(ctx context.Context) (kafka.Message, error) {
	if f.drained {
		select {
		case m := <-f.msgs:
			return m, nil
		default:
			return kafka.Message{}, errs.ErrReceiverClosed
		}
	}

	select {
	case m := <-f.msgs:
		return m, nil
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	}
}

func (f *fakeReceiver) CommitEvent(_ context.Context, event kafka.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.committed = append(f.committed, event.Offset)
	return nil
}

func (f *fakeReceiver) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeReceiver) commits() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int64(nil), f.committed...)
}

type fakePhotos struct {
	mu     sync.Mutex
	seen   []string
	failOn string
}

func (f *fakePhotos) Process(_ context.Context, event entity.UploadEvent) (*entity.PhotoRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen = append(f.seen, event.SourceKey)

	if event.SourceKey == f.failOn {
		return nil, errors.New("boom")
	}
	return &entity.PhotoRecord{UserID: event.UserID, SrcPhotoName: event.SourceKey}, nil
}

func (f *fakePhotos) ProcessBatch(ctx context.Context, events []entity.UploadEvent) *entity.BatchResult {
	res := &entity.BatchResult{}
	for _, e := range events {
		rec, err := f.Process(ctx, e)
		res.Results = append(res.Results, entity.EventResult{Event: e, Record: rec, Err: err})
	}
	return res
}

func (f *fakePhotos) keys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.seen...)
}

func message(offset int64, value string) kafka.Message {
	return kafka.Message{Offset: offset, Value: []byte(value)}
}

const (
	twoUploads = `{"Records":[
		{"eventName":"ObjectCreated:Put","userIdentity":{"principalId":"AWS:X:u1"},"s3":{"bucket":{"name":"in"},"object":{"key":"a.jpg"}}},
		{"eventName":"ObjectCreated:Put","userIdentity":{"principalId":"AWS:X:u1"},"s3":{"bucket":{"name":"in"},"object":{"key":"b.jpg"}}}]}`
	deleteOnly = `{"Records":[
		{"eventName":"ObjectRemoved:Delete","userIdentity":{"principalId":"u2"},"s3":{"bucket":{"name":"in"},"object":{"key":"c.jpg"}}}]}`
)

func TestControllerCommitsEveryAttemptedMessage(t *testing.T) {
	rcv := newFakeReceiver(
		message(1, twoUploads),
		message(2, "not json"),
		message(3, deleteOnly),
	)
	photos := &fakePhotos{failOn: "a.jpg"}

	c := New(photos, rcv, metrics.New(prometheus.NewRegistry()), logger.NewFromZap(zap.NewNop()), time.Second, 2)
	require.NoError(t, c.Start(context.Background()))

	assert.Eventually(t, func() bool { return len(rcv.commits()) == 3 }, 2*time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, c.Shutdown(ctx))

	assert.ElementsMatch(t, []int64{1, 2, 3}, rcv.commits())
	assert.ElementsMatch(t, []string{"a.jpg", "b.jpg"}, photos.keys())
	assert.True(t, rcv.closed)
}

func TestControllerStartTwice(t *testing.T) {
	c := New(&fakePhotos{}, newFakeReceiver(), metrics.New(prometheus.NewRegistry()), logger.NewFromZap(zap.NewNop()), time.Second, 1)

	require.NoError(t, c.Start(context.Background()))
	assert.Error(t, c.Start(context.Background()))

	require.NoError(t, c.Shutdown(context.Background()))
}

func TestShutdownWithoutStart(t *testing.T) {
	c := New(&fakePhotos{}, newFakeReceiver(), metrics.New(prometheus.NewRegistry()), logger.NewFromZap(zap.NewNop()), time.Second, 1)
	assert.NoError(t, c.Shutdown(context.Background()))
}

func TestControllerStopsReadingWhenReceiverCloses(t *testing.T) {
	rcv := newFakeReceiver(message(7, twoUploads))
	rcv.drained = true
	photos := &fakePhotos{}

	c := New(photos, rcv, metrics.New(prometheus.NewRegistry()), logger.NewFromZap(zap.NewNop()), time.Second, 1)
	require.NoError(t, c.Start(context.Background()))

	assert.Eventually(t, func() bool { return len(rcv.commits()) == 1 }, 2*time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, c.Shutdown(ctx))

	assert.Equal(t, []int64{7}, rcv.commits())
	assert.ElementsMatch(t, []string{"a.jpg", "b.jpg"}, photos.keys())
}

func TestControllerProcessesSiblingsOfRejectedRecord(t *testing.T) {
	rcv := newFakeReceiver(message(4, `{"Records":[
		{"eventName":"ObjectCreated:Put","userIdentity":{"principalId":"AWS:X:u1"},"s3":{"bucket":{"name":"in"},"object":{"key":"bad%zz.jpg"}}},
		{"eventName":"ObjectCreated:Put","userIdentity":{"principalId":""},"s3":{"bucket":{"name":"in"},"object":{"key":"anon.jpg"}}},
		{"eventName":"ObjectCreated:Put","userIdentity":{"principalId":"AWS:X:u1"},"s3":{"bucket":{"name":"in"},"object":{"key":"good.jpg"}}}]}`))
	photos := &fakePhotos{}
	reg := prometheus.NewRegistry()

	c := New(photos, rcv, metrics.New(reg), logger.NewFromZap(zap.NewNop()), time.Second, 1)
	require.NoError(t, c.Start(context.Background()))

	assert.Eventually(t, func() bool { return len(rcv.commits()) == 1 }, 2*time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, c.Shutdown(ctx))

	assert.Equal(t, []string{"good.jpg"}, photos.keys())
	assert.Equal(t, []int64{4}, rcv.commits())
}
