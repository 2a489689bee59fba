package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"emojichirp/internal/models"

	kgo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kgo.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kgo.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisher_PublishPostCreated(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{w: w}
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	err := p.PublishPostCreated(context.Background(), &models.Post{ID: 42, AuthorID: "u1", Content: "🐼", CreatedAt: created})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "u1", string(msg.Key))
	assert.Equal(t, []kgo.Header{
		{Key: "type", Value: []byte(TypePostCreated)},
		{Key: "post_id", Value: []byte("42")},
	}, msg.Headers)

	var ev PostCreated
	require.NoError(t, json.Unmarshal(msg.Value, &ev))
	assert.Equal(t, TypePostCreated, ev.Type)
	assert.Equal(t, uint(42), ev.PostID)
	assert.Equal(t, "u1", ev.AuthorID)
	assert.Equal(t, "🐼", ev.Content)
	assert.True(t, created.Equal(ev.CreatedAt))

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	boom := errors.New("leader not available")
	p := &KafkaPublisher{w: &fakeWriter{err: boom}}

	err := p.PublishPostCreated(context.Background(), &models.Post{ID: 1, AuthorID: "u1"})
	require.ErrorIs(t, err, boom)
}

func TestNew(t *testing.T) {
	assert.IsType(t, Nop{}, New(nil, "posts"))
	assert.IsType(t, &KafkaPublisher{}, New([]string{"localhost:9092"}, "posts"))

	n := Nop{}
	assert.NoError(t, n.PublishPostCreated(context.Background(), &models.Post{}))
	assert.NoError(t, n.Close())
}
