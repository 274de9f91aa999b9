package kafka

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"github.com/tennis-web/internal/config"
	"github.com/tennis-web/internal/domain"
)

// enqueueTimeout bounds how long a page waits for the producer
const enqueueTimeout = 250 * time.Millisecond

// Publisher streams user activity to a Kafka topic. When the producer is
// backed up for longer than enqueueTimeout the event is dropped.
type Publisher struct {
	producer sarama.AsyncProducer
	topic    string
	logger   *slog.Logger
	wg       sync.WaitGroup
	closeMu  sync.Mutex
	closed   bool
}

// NewPublisher creates an async producer for cfg.Topic
func NewPublisher(cfg *config.KafkaConfig, logger *slog.Logger) (*Publisher, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Version = sarama.V3_0_0_0
	saramaConfig.Producer.RequiredAcks = sarama.WaitForLocal
	saramaConfig.Producer.Compression = sarama.CompressionSnappy
	saramaConfig.Producer.Flush.Frequency = 100 * time.Millisecond
	saramaConfig.Producer.Return.Successes = false
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.Timeout = cfg.FlushTimeout

	producer, err := sarama.NewAsyncProducer(cfg.Brokers, saramaConfig)
	if err != nil {
		return nil, err
	}
	logger.Info("kafka activity publisher created",
		"brokers", cfg.Brokers,
		"topic", cfg.Topic,
	)
	return NewPublisherWithProducer(producer, cfg.Topic, logger), nil
}

// NewPublisherWithProducer wraps an existing producer
func NewPublisherWithProducer(producer sarama.AsyncProducer, topic string, logger *slog.Logger) *Publisher {
	p := &Publisher{
		producer: producer,
		topic:    topic,
		logger:   logger,
	}

	p.wg.Add(1)
	go p.drainErrors()
	return p
}

// drainErrors logs delivery failures until the producer shuts down
func (p *Publisher) drainErrors() {
	defer p.wg.Done()
	for err := range p.producer.Errors() {
		p.logger.Error("failed to publish activity",
			"topic", p.topic,
			"error", err.Err,
		)
	}
}

// Publish enqueues an activity event keyed by user id
func (p *Publisher) Publish(ctx context.Context, activity domain.Activity) {
	if activity.ID == "" {
		activity.ID = uuid.NewString()
	}
	if activity.Timestamp.IsZero() {
		activity.Timestamp = time.Now()
	}

	data, err := json.Marshal(activity)
	if err != nil {
		p.logger.Error("failed to encode activity", "type", activity.Type, "error", err)
		return
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(strconv.FormatInt(activity.UserID, 10)),
		Value: sarama.ByteEncoder(data),
	}

	p.closeMu.Lock()
	defer p.closeMu.Unlock()
	if p.closed {
		return
	}

	timer := time.NewTimer(enqueueTimeout)
	defer timer.Stop()

	select {
	case p.producer.Input() <- msg:
	case <-ctx.Done():
	case <-timer.C:
		p.logger.Warn("activity producer backed up, dropping event", "type", activity.Type)
	}
}

// Close flushes buffered events and stops the producer
func (p *Publisher) Close() error {
	p.closeMu.Lock()
	if p.closed {
		p.closeMu.Unlock()
		return nil
	}
	p.closed = true
	p.closeMu.Unlock()

	err := p.producer.Close()
	p.wg.Wait()
	return err
}
