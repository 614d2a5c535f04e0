package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"dutytrip/internal/domain"
)

// TripEventType identifies a lifecycle event published to the broker.
type TripEventType string

const (
	EventTripClaimed   TripEventType = "TRIP_CLAIMED"
	EventTripCompleted TripEventType = "TRIP_COMPLETED"
)

// TripEvent is the message body published for a lifecycle transition.
type TripEvent struct {
	Type           TripEventType `json:"type"`
	TripID         string        `json:"trip_id"`
	Code           string        `json:"code"`
	ServiceTier    string        `json:"service_tier"`
	DriverID       string        `json:"driver_id"`
	BilledAmount   float64       `json:"billed_amount,omitempty"`
	NightSurcharge float64       `json:"night_surcharge,omitempty"`
	OccurredAt     time.Time     `json:"occurred_at"`
}

// NotificationService publishes trip lifecycle events to RabbitMQ so
// downstream consumers (dispatch consoles, payroll) can react.
// Delivery is best-effort: publish failures are logged, never surfaced
// into the lifecycle transition that triggered them.
type NotificationService struct {
	channel  *amqp.Channel
	exchange string
}

// NewNotificationService creates a NotificationService publishing on the
// given channel and exchange. channel may be nil, in which case events
// are only logged.
func NewNotificationService(channel *amqp.Channel, exchange string) *NotificationService {
	return &NotificationService{
		channel:  channel,
		exchange: exchange,
	}
}

// NotifyTripClaimed publishes a TRIP_CLAIMED event.
func (s *NotificationService) NotifyTripClaimed(ctx context.Context, trip *domain.Trip) error {
	return s.publish(ctx, "trip.claimed", TripEvent{
		Type:        EventTripClaimed,
		TripID:      trip.ID,
		Code:        trip.Code,
		ServiceTier: string(trip.ServiceTier),
		DriverID:    trip.DriverID,
		OccurredAt:  trip.StartedAt,
	})
}

// NotifyTripCompleted publishes a TRIP_COMPLETED event including the
// settled amounts.
func (s *NotificationService) NotifyTripCompleted(ctx context.Context, trip *domain.Trip) error {
	return s.publish(ctx, "trip.completed", TripEvent{
		Type:           EventTripCompleted,
		TripID:         trip.ID,
		Code:           trip.Code,
		ServiceTier:    string(trip.ServiceTier),
		DriverID:       trip.DriverID,
		BilledAmount:   trip.BilledAmount,
		NightSurcharge: trip.NightSurcharge,
		OccurredAt:     trip.EndedAt,
	})
}

func (s *NotificationService) publish(ctx context.Context, routingKey string, event TripEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if s.channel == nil {
		log.Printf("[NOTIFY] %s %s", routingKey, body)
		return nil
	}

	err = s.channel.PublishWithContext(ctx, s.exchange, routingKey, false, false, amqp.Publishing{
		ContentType: "application/json",
		Timestamp:   time.Now(),
		Body:        body,
	})
	if err != nil {
		log.Printf("failed to publish %s event: %v", event.Type, err)
		return err
	}

	return nil
}
