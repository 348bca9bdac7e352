package bot

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"raffle/bot/common"
	"raffle/events"
	"raffle/service"

	"github.com/bwmarrin/discordgo"
)

// Config holds bot configuration
type Config struct {
	Token     string
	ChannelID string
}

// Bot announces draw results and answers read-only raffle commands
type Bot struct {
	config      Config
	session     *discordgo.Session
	drawService service.DrawService
	announcer   *DrawAnnouncer
}

// New opens a Discord session, registers commands and subscribes the announcer to eventBus
func New(config Config, drawService service.DrawService, eventBus *events.Bus) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds

	bot := &Bot{
		config:      config,
		session:     dg,
		drawService: drawService,
		announcer:   NewDrawAnnouncer(dg, config.ChannelID),
	}

	dg.AddHandler(bot.handleCommands)

	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	bot.announcer.Register(eventBus)
	log.WithField("channel_id", config.ChannelID).Info("Draw announcements enabled")

	return bot, nil
}

func (b *Bot) Close() error {
	return b.session.Close()
}

func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	switch i.ApplicationCommandData().Name {
	case "draws":
		b.handleDraws(s, i)
	case "winners":
		b.handleWinners(s, i)
	}
}

func (b *Bot) handleDraws(s *discordgo.Session, i *discordgo.InteractionCreate) {
	draws, err := b.drawService.GetUpcomingDraws(context.Background(), 0)
	if err != nil {
		log.Errorf("Error getting upcoming draws: %v", err)
		common.RespondWithError(s, i, "Unable to load draws. Please try again.")
		return
	}

	if err := common.RespondWithEmbed(s, i, BuildUpcomingDrawsEmbed(draws), false); err != nil {
		log.Errorf("Error responding to draws command: %v", err)
	}
}

func (b *Bot) handleWinners(s *discordgo.Session, i *discordgo.InteractionCreate) {
	winners, err := b.drawService.GetRecentWinners(context.Background(), 0)
	if err != nil {
		log.Errorf("Error getting recent winners: %v", err)
		common.RespondWithError(s, i, "Unable to load winners. Please try again.")
		return
	}

	if err := common.RespondWithEmbed(s, i, BuildWinnersEmbed(winners), false); err != nil {
		log.Errorf("Error responding to winners command: %v", err)
	}
}
