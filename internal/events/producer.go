package events

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
)

// Producer publishes auth events to a Kafka topic.
type Producer struct {
	producer *kafka.Producer
	config   *Config
	logger   *slog.Logger
}

// NewProducer creates a Kafka producer with idempotence enabled.
func NewProducer(config *Config, logger *slog.Logger) (*Producer, error) {
	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":  config.Brokers,
		"enable.idempotence": true,
		"acks":               "all",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create producer: %w", err)
	}

	producer := &Producer{
		producer: p,
		config:   config,
		logger:   logger,
	}

	go producer.drainDeliveryReports()

	logger.Info("kafka producer initialized", "brokers", config.Brokers, "topic", config.Topic)

	return producer, nil
}

// Publish sends an auth event asynchronously. Delivery failures surface via
// the delivery-report drain, not the caller.
func (p *Producer) Publish(event AuthEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := &kafka.Message{
		TopicPartition: kafka.TopicPartition{
			Topic:     &p.config.Topic,
			Partition: kafka.PartitionAny,
		},
		Value: data,
	}

	if err := p.producer.Produce(msg, nil); err != nil {
		return fmt.Errorf("failed to produce message: %w", err)
	}

	return nil
}

// Close flushes pending messages and shuts the producer down.
func (p *Producer) Close() {
	p.producer.Flush(5000)
	p.producer.Close()
}

func (p *Producer) drainDeliveryReports() {
	for e := range p.producer.Events() {
		if m, ok := e.(*kafka.Message); ok && m.TopicPartition.Error != nil {
			p.logger.Error("auth event delivery failed",
				"topic", *m.TopicPartition.Topic,
				"error", m.TopicPartition.Error.Error(),
			)
		}
	}
}
