package paginator

import "context"

// MessageID identifies a message on the chat gateway. Its format belongs to
// the Messenger that produced it.
type MessageID string

// UserID identifies the person allowed to drive a session.
type UserID string

// Messenger is the chat-side surface a session renders into. Implementations
// are bound to a single conversation.
type Messenger interface {
	Send(ctx context.Context, text string) (MessageID, error)
	Edit(ctx context.Context, id MessageID, text string) error
	Attach(ctx context.Context, id MessageID, actions []Action) error
	Clear(ctx context.Context, id MessageID) error
}
