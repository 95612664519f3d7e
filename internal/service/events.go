package service

import (
	"context"

	"github.com/medhabt/technotes/internal/logging"
)

const (
	TopicUserEvents = "user_events"
	TopicNoteEvents = "note_events"
)

// Publisher emits lifecycle events to the message broker.
type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

// publish is fire-and-forget: a broker failure is logged and the request
// proceeds.
func publish(ctx context.Context, p Publisher, topic, key string, event any) {
	if p == nil {
		return
	}
	if err := p.PublishEvent(ctx, topic, key, event); err != nil {
		logging.FromContext(ctx).Error("event publish failed", "topic", topic, "error", err)
	}
}
