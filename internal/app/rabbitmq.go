package app

import (
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"dutytrip/internal/config"
)

const rabbitMaxRetries = 5

// NewRabbitChannel connects to RabbitMQ with backoff and declares the
// trip event exchange. Returns the connection (for shutdown) and an open
// channel ready for publishing.
func NewRabbitChannel(cfg config.RabbitConfig) (*amqp.Connection, *amqp.Channel, error) {
	var conn *amqp.Connection
	var err error

	for attempt := 1; attempt <= rabbitMaxRetries; attempt++ {
		conn, err = amqp.Dial(cfg.URL)
		if err == nil {
			break
		}
		if attempt == rabbitMaxRetries {
			return nil, nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
		}
		time.Sleep(time.Duration(attempt) * time.Second)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := channel.ExchangeDeclare(cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		channel.Close()
		conn.Close()
		return nil, nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return conn, channel, nil
}
