// Package events publica en Kafka los eventos de inventario ya confirmados.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/rack-inventario-api/internal/application/inventory"
	"github.com/jhoicas/rack-inventario-api/internal/domain/entity"
)

var _ inventory.EventPublisher = (*KafkaPublisher)(nil)

// Envelope formato del mensaje publicado.
type Envelope struct {
	EventID    string          `json:"event_id"`
	EventType  string          `json:"event_type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Actor      string          `json:"actor,omitempty"`
	ItemID     string          `json:"item_id"`
	Placement  *PlacementEvent `json:"placement,omitempty"`
	Movement   *MovementEvent  `json:"movement,omitempty"`
}

// PlacementEvent estado de la ubicación tras la operación.
type PlacementEvent struct {
	ID             string    `json:"id"`
	ItemID         string    `json:"item_id"`
	SlotID         string    `json:"slot_id"`
	Quantity       int       `json:"quantity"`
	DateStored     time.Time `json:"date_stored"`
	LabelGenerated bool      `json:"label_generated"`
	MaterialCode   string    `json:"material_code,omitempty"`
}

// MovementEvent registro del libro de movimientos.
type MovementEvent struct {
	ID           string    `json:"id"`
	ItemID       string    `json:"item_id"`
	FromRackID   string    `json:"from_rack_id"`
	FromSlotID   string    `json:"from_slot_id"`
	ToRackID     string    `json:"to_rack_id"`
	ToSlotID     string    `json:"to_slot_id"`
	Quantity     int       `json:"quantity"`
	MovementDate time.Time `json:"movement_date"`
	MovedBy      string    `json:"moved_by,omitempty"`
}

// KafkaPublisher implementa inventory.EventPublisher sobre un SyncProducer de sarama.
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	log      zerolog.Logger
}

// NewKafkaPublisher crea el productor síncrono contra los brokers indicados.
func NewKafkaPublisher(brokers []string, topic string, log zerolog.Logger) (*KafkaPublisher, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.Retry.Max = 3
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("crear productor kafka: %w", err)
	}
	log.Info().Strs("brokers", brokers).Str("topic", topic).Msg("publicador kafka inicializado")
	return NewKafkaPublisherWithProducer(producer, topic, log), nil
}

// NewKafkaPublisherWithProducer usa un productor ya construido (tests con sarama/mocks).
func NewKafkaPublisherWithProducer(producer sarama.SyncProducer, topic string, log zerolog.Logger) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic, log: log}
}

// Publish serializa el evento y lo envía con clave = ítem, así los eventos de un ítem conservan orden.
func (p *KafkaPublisher) Publish(ctx context.Context, ev inventory.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	env := toEnvelope(ev)
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("serializar evento: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(ev.ItemID),
		Value: sarama.ByteEncoder(body),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(env.EventType)},
			{Key: []byte("event_id"), Value: []byte(env.EventID)},
		},
	}
	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("enviar evento %s a kafka: %w", env.EventType, err)
	}

	p.log.Debug().
		Str("event_id", env.EventID).
		Str("event_type", env.EventType).
		Str("topic", p.topic).
		Int32("partition", partition).
		Int64("offset", offset).
		Msg("evento de inventario publicado")
	return nil
}

// Close cierra el productor.
func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

func toEnvelope(ev inventory.Event) Envelope {
	env := Envelope{
		EventID:    uuid.New().String(),
		EventType:  ev.Type,
		OccurredAt: ev.OccurredAt.UTC(),
		Actor:      ev.Actor,
		ItemID:     ev.ItemID,
	}
	if ev.Placement != nil {
		env.Placement = placementEvent(ev.Placement)
	}
	if ev.Movement != nil {
		env.Movement = movementEvent(ev.Movement)
	}
	return env
}

func placementEvent(p *entity.Placement) *PlacementEvent {
	return &PlacementEvent{
		ID:             p.ID,
		ItemID:         p.ItemID,
		SlotID:         p.SlotID,
		Quantity:       p.Quantity,
		DateStored:     p.DateStored.UTC(),
		LabelGenerated: p.LabelGenerated,
		MaterialCode:   p.MaterialCode,
	}
}

func movementEvent(m *entity.Movement) *MovementEvent {
	return &MovementEvent{
		ID:           m.ID,
		ItemID:       m.ItemID,
		FromRackID:   m.FromRackID,
		FromSlotID:   m.FromSlotID,
		ToRackID:     m.ToRackID,
		ToSlotID:     m.ToSlotID,
		Quantity:     m.Quantity,
		MovementDate: m.MovementDate.UTC(),
		MovedBy:      m.MovedBy,
	}
}
