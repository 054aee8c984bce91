package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/retailnet/backend/pkg/db/models"
	"github.com/retailnet/backend/pkg/enums"
	"github.com/retailnet/backend/pkg/logger"
	"github.com/retailnet/backend/pkg/mailer"
	"github.com/retailnet/backend/pkg/metrics"
	"github.com/retailnet/backend/pkg/outbox"
	"github.com/retailnet/backend/pkg/outbox/idempotency"
)

const notificationsConsumer = "notifications-worker"

type userLoader interface {
	FindByID(ctx context.Context, id uint) (*models.User, error)
}

// Consumer turns domain events into transactional email. Delivery failures
// are nacked so the subscription redelivers; the API side never waits.
type Consumer struct {
	users        userLoader
	subscription *pubsub.Subscriber
	idempotency  *idempotency.Manager
	mail         mailer.Sender
	metrics      *metrics.WorkerMetrics
	logg         *logger.Logger
}

// NewConsumer builds the notification consumer.
func NewConsumer(users userLoader, subscription *pubsub.Subscriber, manager *idempotency.Manager, mail mailer.Sender, workerMetrics *metrics.WorkerMetrics, logg *logger.Logger) (*Consumer, error) {
	if users == nil {
		return nil, fmt.Errorf("user loader required")
	}
	if subscription == nil {
		return nil, fmt.Errorf("domain subscription required")
	}
	if manager == nil {
		return nil, fmt.Errorf("idempotency manager required")
	}
	if mail == nil {
		return nil, fmt.Errorf("mail sender required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{
		users:        users,
		subscription: subscription,
		idempotency:  manager,
		mail:         mail,
		metrics:      workerMetrics,
		logg:         logg,
	}, nil
}

// Run starts the consumer loop until the context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		result := c.process(ctx, msg)
		if result.nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

type processResult struct {
	ack  bool
	nack bool
}

func (c *Consumer) process(ctx context.Context, msg *pubsub.Message) processResult {
	started := time.Now()
	eventType := enums.OutboxEventType(msg.Attributes["event_type"])
	fields := map[string]any{
		"message_id": msg.ID,
		"event_type": eventType,
	}
	logCtx := c.logg.WithFields(ctx, fields)

	switch eventType {
	case enums.EventOrderPlaced, enums.EventUserRegistered:
	default:
		c.logg.Debug(logCtx, "skipping unhandled event")
		return processResult{ack: true}
	}

	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(msg.Data, &envelope); err != nil {
		c.logg.Error(logCtx, "failed to decode envelope", err)
		return processResult{ack: true}
	}

	eventID, err := uuid.Parse(envelope.EventID)
	if err != nil {
		c.logg.Error(logCtx, "invalid event id", err)
		return processResult{ack: true}
	}

	already, err := c.idempotency.CheckAndMarkProcessed(ctx, notificationsConsumer, eventID)
	if err != nil {
		c.logg.Error(logCtx, "idempotency check failed", err)
		return processResult{nack: true}
	}
	if already {
		c.logg.Info(logCtx, "event already processed")
		return processResult{ack: true}
	}

	if err := c.handleEvent(ctx, eventType, envelope.Data, logCtx); err != nil {
		c.logg.Error(logCtx, "notification handling failed", err)
		_ = c.idempotency.Delete(ctx, notificationsConsumer, eventID)
		c.metrics.IncFailure(notificationsConsumer)
		return processResult{nack: true}
	}

	c.metrics.IncSuccess(notificationsConsumer)
	c.metrics.ObserveDuration(notificationsConsumer, time.Since(started))
	return processResult{ack: true}
}

func (c *Consumer) handleEvent(ctx context.Context, eventType enums.OutboxEventType, data json.RawMessage, logCtx context.Context) error {
	switch eventType {
	case enums.EventOrderPlaced:
		var payload orderPlacedPayload
		if err := json.Unmarshal(data, &payload); err != nil {
			return fmt.Errorf("parsing order payload: %w", err)
		}
		return c.sendOrderPlaced(ctx, payload, logCtx)
	case enums.EventUserRegistered:
		var payload userRegisteredPayload
		if err := json.Unmarshal(data, &payload); err != nil {
			return fmt.Errorf("parsing registration payload: %w", err)
		}
		return c.sendConfirmToken(ctx, payload, logCtx)
	default:
		return nil
	}
}

func (c *Consumer) sendOrderPlaced(ctx context.Context, payload orderPlacedPayload, logCtx context.Context) error {
	if payload.UserID == 0 {
		return fmt.Errorf("user id missing")
	}
	user, err := c.users.FindByID(ctx, payload.UserID)
	if err != nil {
		return fmt.Errorf("loading user %d: %w", payload.UserID, err)
	}
	msg := mailer.Message{
		To:      []string{user.Email},
		Subject: fmt.Sprintf("Order %d placed", payload.OrderID),
		Body:    fmt.Sprintf("Your order %d has been placed and is now being processed.", payload.OrderID),
	}
	if err := c.mail.Send(ctx, msg); err != nil {
		return err
	}
	c.logg.Info(logCtx, "order confirmation sent")
	return nil
}

func (c *Consumer) sendConfirmToken(ctx context.Context, payload userRegisteredPayload, logCtx context.Context) error {
	if payload.Email == "" || payload.Token == "" {
		return fmt.Errorf("email or token missing")
	}
	msg := mailer.Message{
		To:      []string{payload.Email},
		Subject: "Confirm your registration",
		Body:    fmt.Sprintf("Use this token to confirm your account: %s", payload.Token),
	}
	if err := c.mail.Send(ctx, msg); err != nil {
		return err
	}
	c.logg.Info(logCtx, "confirmation token sent")
	return nil
}

type orderPlacedPayload struct {
	OrderID   uint `json:"order_id"`
	UserID    uint `json:"user_id"`
	ContactID uint `json:"contact_id"`
}

type userRegisteredPayload struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Token  string `json:"token"`
}
