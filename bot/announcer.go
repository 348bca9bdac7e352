package bot

import (
	"context"

	"raffle/events"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// EmbedSender posts embeds to a channel
type EmbedSender interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// DrawAnnouncer posts draw results to a Discord channel
type DrawAnnouncer struct {
	sender    EmbedSender
	channelID string
}

// NewDrawAnnouncer creates an announcer posting to channelID
func NewDrawAnnouncer(sender EmbedSender, channelID string) *DrawAnnouncer {
	return &DrawAnnouncer{
		sender:    sender,
		channelID: channelID,
	}
}

// Register subscribes the announcer to draw resolutions
func (a *DrawAnnouncer) Register(bus *events.Bus) {
	bus.Subscribe(events.EventTypeDrawResolved, func(ctx context.Context, event events.Event) {
		e, ok := event.(events.DrawResolvedEvent)
		if !ok {
			return
		}
		if err := a.Announce(e); err != nil {
			log.WithFields(log.Fields{
				"draw_id": e.DrawID,
				"error":   err,
			}).Error("Failed to announce draw result")
		}
	})
}

// Announce posts the result of a single draw
func (a *DrawAnnouncer) Announce(e events.DrawResolvedEvent) error {
	_, err := a.sender.ChannelMessageSendEmbed(a.channelID, BuildDrawResultEmbed(e))
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"draw_id":    e.DrawID,
		"status":     e.Status,
		"channel_id": a.channelID,
	}).Info("Announced draw result")
	return nil
}
