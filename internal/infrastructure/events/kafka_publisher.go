// Package events publica los eventos de dominio en Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"

	"github.com/jhoicas/stockpro/internal/domain/event"
	"github.com/jhoicas/stockpro/pkg/logger"
)

// KafkaPublisher envía cada evento al tópico "<prefijo>.<tipo>", particionado por Event.Key.
type KafkaPublisher struct {
	producer sarama.SyncProducer
	prefix   string
	log      *logger.Logger
}

// Options configuración del productor.
type Options struct {
	Brokers     []string
	TopicPrefix string
	ClientID    string
}

// NewKafkaPublisher crea un SyncProducer con acks de todas las réplicas.
func NewKafkaPublisher(opts Options, log *logger.Logger) (*KafkaPublisher, error) {
	cfg := sarama.NewConfig()
	cfg.ClientID = opts.ClientID
	cfg.Producer.Return.Successes = true
	cfg.Producer.Retry.Max = 3
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Compression = sarama.CompressionSnappy
	cfg.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(opts.Brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	log = log.Component("events")
	log.Info().Strs("brokers", opts.Brokers).Str("topic_prefix", opts.TopicPrefix).Msg("publicador Kafka inicializado")
	return NewWithProducer(producer, opts.TopicPrefix, log), nil
}

// NewWithProducer envuelve un productor existente (sarama/mocks en tests).
func NewWithProducer(producer sarama.SyncProducer, prefix string, log *logger.Logger) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, prefix: prefix, log: log}
}

// Topic nombre del tópico para un tipo de evento.
func (p *KafkaPublisher) Topic(eventType string) string {
	if p.prefix == "" {
		return eventType
	}
	return p.prefix + "." + eventType
}

// Publish envía los eventos en un solo lote.
func (p *KafkaPublisher) Publish(ctx context.Context, events ...event.Event) error {
	if len(events) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	msgs := make([]*sarama.ProducerMessage, 0, len(events))
	for _, e := range events {
		body, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("serializar evento %s: %w", e.Type, err)
		}
		msgs = append(msgs, &sarama.ProducerMessage{
			Topic: p.Topic(e.Type),
			Key:   sarama.StringEncoder(e.Key),
			Value: sarama.ByteEncoder(body),
			Headers: []sarama.RecordHeader{
				{Key: []byte("event_type"), Value: []byte(e.Type)},
				{Key: []byte("event_id"), Value: []byte(e.ID)},
				{Key: []byte("company_id"), Value: []byte(e.CompanyID)},
			},
		})
	}
	if err := p.producer.SendMessages(msgs); err != nil {
		return fmt.Errorf("kafka publish: %w", err)
	}
	p.log.Debug().Int("events", len(msgs)).Msg("eventos publicados")
	return nil
}

// Close cierra el productor.
func (p *KafkaPublisher) Close() error { return p.producer.Close() }
