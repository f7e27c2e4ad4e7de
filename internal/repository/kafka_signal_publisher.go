package repository

import (
	"context"

	"StockRadar/internal/domain/models"
	"StockRadar/internal/domain/repository"
	pkgkafka "StockRadar/pkg/kafka"
)

// KafkaSignalPublisher implements SignalPublisher for Kafka. Messages are
// keyed by symbol so per-symbol ordering survives partitioning.
type KafkaSignalPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaSignalPublisher creates a Kafka signal publisher.
func NewKafkaSignalPublisher(producer *pkgkafka.Producer, topic string) repository.SignalPublisher {
	return &KafkaSignalPublisher{producer: producer, topic: topic}
}

func (p *KafkaSignalPublisher) Publish(ctx context.Context, signals []models.TradingSignal) error {
	if len(signals) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(signals))
	for i, sig := range signals {
		msgs[i] = pkgkafka.Message{
			Key:   []byte(sig.Symbol),
			Value: sig,
		}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaSignalPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
