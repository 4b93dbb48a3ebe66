// Package event publishes cart domain events to Kafka.
package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/utafrali/storefront/internal/cart"
	"github.com/utafrali/storefront/internal/domain"
	pkgkafka "github.com/utafrali/storefront/pkg/kafka"
	"github.com/utafrali/storefront/pkg/logger"
)

// Kafka topics for cart events.
var (
	TopicCartUpdated = pkgkafka.Topic("cart", "updated")
	TopicCartCleared = pkgkafka.Topic("cart", "cleared")
)

const (
	AggregateTypeCart = "cart"
	SourceStorefront  = "storefront"
)

// CartUpdatedData is the payload of a cart.updated event.
type CartUpdatedData struct {
	SessionID  string         `json:"session_id"`
	Command    string         `json:"command"`
	Items      []CartItemData `json:"items"`
	TotalItems int            `json:"total_items"`
	TotalPrice float64        `json:"total_price"`
}

// CartItemData is one line within a cart event.
type CartItemData struct {
	ProductID int     `json:"product_id"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// CartClearedData is the payload of a cart.cleared event.
type CartClearedData struct {
	SessionID string `json:"session_id"`
}

// Publisher is the part of pkgkafka.Producer this package uses.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// Producer publishes cart events.
type Producer struct {
	kafka  Publisher
	logger *slog.Logger
}

// NewProducer creates a cart event producer.
func NewProducer(kafka Publisher, l *slog.Logger) *Producer {
	return &Producer{kafka: kafka, logger: l}
}

// PublishCartUpdated publishes a cart.updated event for sessionID.
func (p *Producer) PublishCartUpdated(ctx context.Context, sessionID, command string, state domain.CartState) error {
	items := make([]CartItemData, len(state.Items))
	for i, it := range state.Items {
		items[i] = CartItemData{
			ProductID: it.ID,
			Title:     it.Title,
			Price:     it.Price,
			Quantity:  it.Quantity,
		}
	}

	data := CartUpdatedData{
		SessionID:  sessionID,
		Command:    command,
		Items:      items,
		TotalItems: state.TotalItems,
		TotalPrice: state.TotalPrice,
	}
	if err := p.publish(ctx, TopicCartUpdated, sessionID, data); err != nil {
		return err
	}

	p.logger.DebugContext(ctx, "published cart.updated event",
		slog.String("session_id", sessionID),
		slog.Int("total_items", state.TotalItems),
	)
	return nil
}

// PublishCartCleared publishes a cart.cleared event for sessionID.
func (p *Producer) PublishCartCleared(ctx context.Context, sessionID string) error {
	if err := p.publish(ctx, TopicCartCleared, sessionID, CartClearedData{SessionID: sessionID}); err != nil {
		return err
	}

	p.logger.DebugContext(ctx, "published cart.cleared event",
		slog.String("session_id", sessionID),
	)
	return nil
}

func (p *Producer) publish(ctx context.Context, topic, sessionID string, data any) error {
	ev, err := pkgkafka.NewEvent(topic, sessionID, AggregateTypeCart, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		ev.WithCorrelationID(id)
	}

	if err := p.kafka.Publish(ctx, topic, ev); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}
	return nil
}

// Observer returns a cart observer that publishes an event for every change
// to the cart of sessionID. Publish failures are logged and dropped.
func (p *Producer) Observer(sessionID string) cart.Observer {
	return func(ctx context.Context, cmd cart.Command, state domain.CartState) {
		var err error
		if _, ok := cmd.(cart.Clear); ok {
			err = p.PublishCartCleared(ctx, sessionID)
		} else {
			err = p.PublishCartUpdated(ctx, sessionID, cmd.Name(), state)
		}
		if err != nil {
			p.logger.WarnContext(ctx, "failed to publish cart event",
				slog.String("session_id", sessionID),
				slog.String("command", cmd.Name()),
				slog.String("error", err.Error()),
			)
		}
	}
}
