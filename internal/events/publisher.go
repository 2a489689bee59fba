package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"emojichirp/internal/models"

	kgo "github.com/segmentio/kafka-go"
)

const TypePostCreated = "post.created"

type PostCreated struct {
	Type      string    `json:"type"`
	PostID    uint      `json:"post_id"`
	AuthorID  string    `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func NewPostCreated(p *models.Post) PostCreated {
	return PostCreated{
		Type:      TypePostCreated,
		PostID:    p.ID,
		AuthorID:  p.AuthorID,
		Content:   p.Content,
		CreatedAt: p.CreatedAt,
	}
}

type Publisher interface {
	PublishPostCreated(ctx context.Context, p *models.Post) error
	Close() error
}

// New returns a Kafka publisher, or Nop when no brokers are configured.
func New(brokers []string, topic string) Publisher {
	if len(brokers) == 0 {
		return Nop{}
	}
	return NewKafkaPublisher(brokers, topic)
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kgo.Message) error
	Close() error
}

// KafkaPublisher writes post events keyed by author so one author's posts stay ordered
// within a partition.
type KafkaPublisher struct {
	w messageWriter
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{w: &kgo.Writer{
		Addr:         kgo.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kgo.Hash{},
		RequiredAcks: kgo.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}}
}

func (p *KafkaPublisher) PublishPostCreated(ctx context.Context, post *models.Post) error {
	b, err := json.Marshal(NewPostCreated(post))
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	return p.w.WriteMessages(ctx, kgo.Message{
		Key:   []byte(post.AuthorID),
		Value: b,
		Headers: []kgo.Header{
			{Key: "type", Value: []byte(TypePostCreated)},
			{Key: "post_id", Value: []byte(strconv.FormatUint(uint64(post.ID), 10))},
		},
	})
}

func (p *KafkaPublisher) Close() error { return p.w.Close() }

// Nop is used when no brokers are configured.
type Nop struct{}

func (Nop) PublishPostCreated(context.Context, *models.Post) error { return nil }
func (Nop) Close() error { return nil }
