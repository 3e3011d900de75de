package transport

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"
)

// Discord implements Transport over the Discord gateway.
type Discord struct {
	session *discordgo.Session
}

func NewDiscord(token string) (*Discord, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}

	session.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent

	return &Discord{session: session}, nil
}

// Listen registers h for new messages and opens the gateway connection.
func (d *Discord) Listen(ctx context.Context, h HandlerFunc) (func(), error) {
	removeReady := d.session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		slog.Info("discord ready", "user", r.User.Username, "guilds", len(r.Guilds))
		for _, g := range r.Guilds {
			slog.Debug("listening on guild", "guild_id", g.ID)
		}
	})

	removeMessage := d.session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		if m.Author == nil {
			return
		}
		self := s.State != nil && s.State.User != nil && m.Author.ID == s.State.User.ID
		h(ctx, Message{
			ID:        m.ID,
			Content:   m.Content,
			SenderID:  m.Author.ID,
			ChannelID: m.ChannelID,
			FromSelf:  self || m.Author.Bot,
		})
	})

	if err := d.session.Open(); err != nil {
		removeMessage()
		removeReady()
		return nil, fmt.Errorf("failed to open discord gateway: %w", err)
	}

	return func() {
		removeMessage()
		removeReady()
	}, nil
}

func (d *Discord) Send(ctx context.Context, channelID, text string) error {
	_, err := d.session.ChannelMessageSend(channelID, text, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to send discord message to %s: %w", channelID, err)
	}
	return nil
}

func (d *Discord) Close() error {
	return d.session.Close()
}
