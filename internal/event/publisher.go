package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/streadway/amqp"

	"github.com/Krimson/fatigue-guard/internal/repository"
)

// Routing keys публикуемых событий
const (
	AnalysisCompleted = "fatigue.analysis.completed"
	TestCompleted     = "cognitive.test.completed"
)

// Publisher отправляет доменные события в topic exchange RabbitMQ
type Publisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

// NewPublisher подключается к RabbitMQ и объявляет exchange
func NewPublisher(amqpURL, exchange string) (*Publisher, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	log.Printf("[EVENT] Publisher ready: exchange=%s", exchange)
	return &Publisher{conn: conn, channel: ch, exchange: exchange}, nil
}

// PublishAnalysisCompleted публикует итог анализа усталости
func (p *Publisher) PublishAnalysisCompleted(_ context.Context, rec *repository.FatigueRecord) error {
	return p.publish(AnalysisCompleted, rec)
}

// PublishTestCompleted публикует результат когнитивного теста
func (p *Publisher) PublishTestCompleted(_ context.Context, rec *repository.TestRecord) error {
	return p.publish(TestCompleted, rec)
}

func (p *Publisher) publish(eventType string, payload interface{}) error {
	event := map[string]interface{}{
		"type":    eventType,
		"payload": payload,
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	log.Printf("[EVENT] Publishing %s", eventType)

	// routing key совпадает с типом события
	err = p.channel.Publish(
		p.exchange,
		eventType,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", eventType, err)
	}
	return nil
}

// Close закрывает канал и соединение
func (p *Publisher) Close() {
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}
