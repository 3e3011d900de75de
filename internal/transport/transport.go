// Package transport connects the bot to a chat system. The core only sees
// inbound messages and a way to post text to a channel.
package transport

import (
	"context"
)

// Message is one inbound chat message.
type Message struct {
	ID        string
	Content   string
	SenderID  string
	ChannelID string
	// FromSelf marks messages the bot itself authored
	FromSelf bool
}

type HandlerFunc func(ctx context.Context, msg Message)

// Sender posts text to a channel.
type Sender interface {
	Send(ctx context.Context, channelID, text string) error
}

// Transport delivers inbound messages to a handler until the returned
// unsubscribe func is called.
type Transport interface {
	Sender
	Listen(ctx context.Context, h HandlerFunc) (unsubscribe func(), err error)
	Close() error
}
