package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// Темы событий жизненного цикла записи очереди
const (
	SubjectEntryCreated       = "queue.entry.created"
	SubjectEntryStatusChanged = "queue.entry.status_changed"
	SubjectEntryCancelled     = "queue.entry.cancelled"
)

// EntryEvent полезная нагрузка события по записи очереди
type EntryEvent struct {
	EntryID    string    `json:"entryId"`
	LineID     string    `json:"lineId"`
	CustomerID string    `json:"customerId"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Publisher публикует доменные события
type Publisher interface {
	Publish(subject string, event EntryEvent) error
	Close()
}

// NATSPublisher публикует события в NATS
type NATSPublisher struct {
	conn *nats.Conn
}

// NewNATSPublisher подключается к NATS и возвращает издателя событий
func NewNATSPublisher(url string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("events: connect to NATS: %w", err)
	}

	return &NATSPublisher{conn: conn}, nil
}

// Publish сериализует событие и публикует его в заданную тему
func (p *NATSPublisher) Publish(subject string, event EntryEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("events: marshal event: %w", err)
	}

	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("events: publish to %s: %w", subject, err)
	}

	return nil
}

// Close закрывает соединение с NATS
func (p *NATSPublisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}

// NoopPublisher заглушка издателя для работы без NATS
type NoopPublisher struct{}

// NewNoopPublisher возвращает издателя, который молча игнорирует события
func NewNoopPublisher() *NoopPublisher {
	return &NoopPublisher{}
}

// Publish ничего не делает
func (p *NoopPublisher) Publish(_ string, _ EntryEvent) error {
	return nil
}

// Close ничего не делает
func (p *NoopPublisher) Close() {}
