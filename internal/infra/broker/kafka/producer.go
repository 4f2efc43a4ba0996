// Package kafka publishes reservation lifecycle events through sarama.
package kafka

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"

	"staybook/internal/app/dto"
	"staybook/internal/app/policies"
)

const reservationCreatedTopic = "reservation.created"

type Producer struct {
	sync        sarama.SyncProducer
	topicPrefix string
}

func NewProducer(brokers []string, topicPrefix string, cfg *sarama.Config) (*Producer, error) {
	if cfg == nil {
		cfg = sarama.NewConfig()
	}
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Idempotent = true
	cfg.Producer.Return.Successes = true
	cfg.Net.MaxOpenRequests = 1
	sync, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, err
	}
	return &Producer{sync: sync, topicPrefix: topicPrefix}, nil
}

// ReservationCreated emits one event per committed reservation, keyed by
// listing id so per-listing ordering survives partitioning.
func (p *Producer) ReservationCreated(ctx context.Context, res dto.Reservation) error {
	payload, err := json.Marshal(res)
	if err != nil {
		return err
	}
	msg := &sarama.ProducerMessage{
		Topic: p.topicPrefix + reservationCreatedTopic,
		Key:   sarama.StringEncoder(strconv.FormatInt(res.ListingID, 10)),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_id"), Value: []byte(uuid.NewString())},
			{Key: []byte("emitted_at"), Value: []byte(time.Now().UTC().Format(time.RFC3339))},
		},
	}
	_, _, err = p.sync.SendMessage(msg)
	return err
}

func (p *Producer) Close() error {
	if p.sync == nil {
		return nil
	}
	return p.sync.Close()
}

var _ policies.EventsPort = (*Producer)(nil)
