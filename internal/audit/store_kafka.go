package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"suratdesa/internal/platform/kafka/producer"
)

// KafkaStore publishes audit events to a Kafka topic. Reads are not served
// from Kafka; pair it with a queryable store via Tee when history lookups
// are needed.
type KafkaStore struct {
	producer *producer.Producer
	topic    string
}

// NewKafkaStore creates a Kafka-backed audit sink.
func NewKafkaStore(p *producer.Producer, topic string) *KafkaStore {
	return &KafkaStore{producer: p, topic: topic}
}

func (s *KafkaStore) Append(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	return s.producer.Produce(ctx, &producer.Message{
		Topic: s.topic,
		Key:   []byte(event.LetterID),
		Value: payload,
		Headers: map[string]string{
			"action": event.Action,
		},
	})
}

// ListByLetter is unsupported for the Kafka sink.
func (s *KafkaStore) ListByLetter(_ context.Context, _ string) ([]Event, error) {
	return nil, fmt.Errorf("kafka audit sink does not support reads")
}

// Tee fans appends out to several stores; reads come from the first.
type Tee struct {
	stores []Store
}

// NewTee combines stores. The first store serves reads.
func NewTee(stores ...Store) *Tee {
	return &Tee{stores: stores}
}

func (t *Tee) Append(ctx context.Context, event Event) error {
	var firstErr error
	for _, s := range t.stores {
		if err := s.Append(ctx, event); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (t *Tee) ListByLetter(ctx context.Context, letterID string) ([]Event, error) {
	if len(t.stores) == 0 {
		return nil, nil
	}
	return t.stores[0].ListByLetter(ctx, letterID)
}
