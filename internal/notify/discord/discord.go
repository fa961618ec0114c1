// Package discord delivers alert notifications through a Discord bot.
package discord

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/bwmarrin/discordgo"

	"cicd-dashboard/config"
	"cicd-dashboard/internal/alert"
	"cicd-dashboard/internal/notify/format"
	"cicd-dashboard/pkg/log"
)

// Transport owns the bot session for the discord channel. The gateway
// login completes asynchronously, so deliveries attempted before the
// Ready event fail without touching the session.
type Transport struct {
	l         log.Logger
	cfg       config.DiscordConfig
	session   *discordgo.Session
	state     atomic.Int32
	closeOnce atomic.Bool
}

// New creates the discord transport without connecting.
func New(l log.Logger, cfg config.DiscordConfig) *Transport {
	return &Transport{l: l, cfg: cfg}
}

// Name returns the channel name.
func (t *Transport) Name() string { return "discord" }

// State returns the current login state.
func (t *Transport) State() State {
	return State(t.state.Load())
}

// Enabled reports whether the bot is logged in and a target channel is
// configured. The channel stays disabled until the Ready event arrives.
func (t *Transport) Enabled() bool {
	return t.cfg.ChannelID != "" && t.State() == StateReady
}

// Configured reports whether credentials are present, regardless of
// login state.
func (t *Transport) Configured() bool { return t.cfg.Enabled() }

// Start opens the gateway session. A missing token leaves the transport
// uninitialized so the dispatcher skips the channel.
func (t *Transport) Start(ctx context.Context) error {
	if t.cfg.BotToken == "" {
		t.l.Warn(ctx, "Discord bot token not provided, discord notifications disabled")
		return nil
	}

	session, err := discordgo.New("Bot " + t.cfg.BotToken)
	if err != nil {
		t.state.Store(int32(StateFailed))
		return fmt.Errorf("failed to create discord session: %w", err)
	}

	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages
	session.AddHandlerOnce(func(s *discordgo.Session, r *discordgo.Ready) {
		t.state.Store(int32(StateReady))
		t.l.Infof(ctx, "Discord bot logged in as %s#%s", r.User.Username, r.User.Discriminator)
	})

	t.state.Store(int32(StateLoggingIn))
	if err := session.Open(); err != nil {
		t.state.Store(int32(StateFailed))
		return fmt.Errorf("failed to open discord gateway: %w", err)
	}

	t.session = session
	return nil
}

// Deliver posts the alert embed to the configured channel. It fails fast
// when the bot has not finished logging in.
func (t *Transport) Deliver(ctx context.Context, e alert.Event) error {
	if t.State() != StateReady {
		t.l.Warnf(ctx, "Discord delivery skipped, bot state is %s", t.State())
		return fmt.Errorf("discord bot not ready (state %s)", t.State())
	}
	if t.cfg.ChannelID == "" {
		return fmt.Errorf("discord channel ID not configured")
	}

	msg := format.Discord(e)
	embed := &discordgo.MessageEmbed{
		Title:       msg.Title,
		Description: msg.Description,
		Color:       msg.Color,
		Timestamp:   time.Now().Format(time.RFC3339),
		Footer:      &discordgo.MessageEmbedFooter{Text: "CI/CD Dashboard Alert"},
	}
	for _, f := range msg.Fields {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   f.Name,
			Value:  f.Value,
			Inline: f.Inline,
		})
	}

	if _, err := t.session.ChannelMessageSendEmbed(t.cfg.ChannelID, embed, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to send discord embed: %w", err)
	}
	return nil
}

// Close tears down the gateway session.
func (t *Transport) Close() error {
	if !t.closeOnce.CompareAndSwap(false, true) {
		return nil
	}
	if t.session == nil {
		return nil
	}
	t.state.Store(int32(StateUninitialized))
	return t.session.Close()
}
