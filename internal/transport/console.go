package transport

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/fatih/color"
)

const ConsoleChannelID = "console"

// Console reads one message per line from in and prints replies to out.
// Useful for trying commands locally without a chat account.
type Console struct {
	in     io.Reader
	out    io.Writer
	userID string

	mu     sync.Mutex // guards out
	reply  *color.Color
	prompt *color.Color
	seq    atomic.Int64
	done   chan struct{}
}

func NewConsole(in io.Reader, out io.Writer, userID string) *Console {
	return &Console{
		in:     in,
		out:    out,
		userID: userID,
		reply:  color.New(color.FgGreen),
		prompt: color.New(color.FgCyan, color.Bold),
		done:   make(chan struct{}),
	}
}

// Listen reads lines on a background goroutine. Handlers run one at a time
// in input order. Done is closed when input is exhausted.
func (c *Console) Listen(ctx context.Context, h HandlerFunc) (func(), error) {
	var stopped atomic.Bool

	go func() {
		defer close(c.done)
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			if stopped.Load() || ctx.Err() != nil {
				return
			}
			h(ctx, Message{
				ID:        strconv.FormatInt(c.seq.Add(1), 10),
				Content:   scanner.Text(),
				SenderID:  c.userID,
				ChannelID: ConsoleChannelID,
			})
		}
	}()

	return func() { stopped.Store(true) }, nil
}

// Done is closed once the input reader hits EOF or the listener stops.
func (c *Console) Done() <-chan struct{} {
	return c.done
}

func (c *Console) Send(ctx context.Context, channelID, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	prefix := c.prompt.Sprintf("[%s]", channelID)
	_, err := fmt.Fprintf(c.out, "%s %s\n", prefix, c.reply.Sprint(text))
	return err
}

func (c *Console) Close() error {
	return nil
}
