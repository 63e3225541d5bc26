package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/IBM/sarama"
)

type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	log      *slog.Logger
}

func NewKafkaPublisher(brokers []string, topic string, log *slog.Logger) (*KafkaPublisher, error) {
	prod, err := sarama.NewSyncProducer(brokers, producerConfig())
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	return NewKafkaPublisherFromProducer(prod, topic, log), nil
}

// producerConfig keeps a dead broker from stalling the request that publishes.
func producerConfig() *sarama.Config {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Timeout = 2 * time.Second
	config.Producer.Retry.Max = 1
	config.Producer.Retry.Backoff = 50 * time.Millisecond
	config.Metadata.Retry.Max = 1
	config.Metadata.Retry.Backoff = 50 * time.Millisecond
	config.Net.DialTimeout = 2 * time.Second
	config.Net.ReadTimeout = 2 * time.Second
	config.Net.WriteTimeout = 2 * time.Second
	return config
}

func NewKafkaPublisherFromProducer(prod sarama.SyncProducer, topic string, log *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{producer: prod, topic: topic, log: log}
}

// Publish sends e keyed by order id, so every event of one order lands on the same partition.
func (p *KafkaPublisher) Publish(ctx context.Context, e Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(e.OrderID),
		Value: sarama.ByteEncoder(body),
	}
	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("send %s to %s: %w", e.Type, p.topic, err)
	}
	p.log.DebugContext(ctx, "event stored",
		"topic", p.topic, "partition", partition, "offset", offset, "type", e.Type)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
