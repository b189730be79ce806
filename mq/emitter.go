package mq

import (
	"context"
	"encoding/json"
	"log"

	"github.com/thor8126/ProShop/models"
	"github.com/thor8126/ProShop/rdx"
)

// EventsChannel is the Redis pub/sub channel order and user events go to.
const EventsChannel = "proshop-events"

type envelope struct {
	Event   string       `json:"event"`
	Content models.Index `json:"content"`
}

// Emit publishes an event to Redis. Publishing is best-effort: a
// failed publish is logged and never fails the request that caused it.
func Emit(ctx context.Context, eventName string, content models.Index) {
	data, err := json.Marshal(envelope{Event: eventName, Content: content})
	if err != nil {
		log.Printf("[Emit] Failed to marshal event content: %v", err)
		return
	}

	if err := rdx.Conn.Publish(ctx, EventsChannel, data).Err(); err != nil {
		log.Printf("[Emit] Failed to publish %s event to Redis: %v", eventName, err)
	}
}
