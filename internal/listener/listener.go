// Package listener feeds chat messages through the command router and posts
// each reply back to the channel the message came from.
package listener

import (
	"context"
	"log/slog"
	"sync"

	"github.com/nzoschke/goalbot/internal/command"
	"github.com/nzoschke/goalbot/internal/transport"
)

type Dispatcher interface {
	Dispatch(ctx context.Context, cmd *command.Command) string
}

type Listener struct {
	transport  transport.Transport
	dispatcher Dispatcher
	prefix     string

	mu          sync.Mutex
	listening   bool
	unsubscribe func()
	inflight    sync.WaitGroup
}

func New(t transport.Transport, d Dispatcher, prefix string) *Listener {
	return &Listener{
		transport:  t,
		dispatcher: d,
		prefix:     prefix,
	}
}

// Start subscribes to the transport. Calling Start while listening is a no-op.
func (l *Listener) Start(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.listening {
		return nil
	}

	unsubscribe, err := l.transport.Listen(ctx, l.handle)
	if err != nil {
		return err
	}
	l.unsubscribe = unsubscribe
	l.listening = true

	slog.Info("listener started", "prefix", l.prefix)
	return nil
}

// Stop unsubscribes and waits for messages already being handled.
func (l *Listener) Stop() {
	l.mu.Lock()
	if !l.listening {
		l.mu.Unlock()
		return
	}
	l.listening = false
	unsubscribe := l.unsubscribe
	l.unsubscribe = nil
	l.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	l.inflight.Wait()

	slog.Info("listener stopped")
}

func (l *Listener) handle(ctx context.Context, msg transport.Message) {
	if !l.enter() {
		return
	}
	defer l.inflight.Done()

	err := l.process(ctx, msg)
	if err != nil {
		slog.Error("failed to send reply", "error", err, "channel_id", msg.ChannelID, "message_id", msg.ID)
	}
}

// enter registers an in-flight message unless the listener is stopped.
func (l *Listener) enter() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.listening {
		return false
	}
	l.inflight.Add(1)
	return true
}

func (l *Listener) process(ctx context.Context, msg transport.Message) error {
	if msg.FromSelf {
		return nil
	}

	cmd, ok := command.Parse(msg.Content, msg.SenderID, msg.ChannelID, l.prefix)
	if !ok {
		return nil
	}

	reply := l.dispatcher.Dispatch(ctx, cmd)
	if reply == "" {
		return nil
	}

	return l.transport.Send(ctx, msg.ChannelID, reply)
}
