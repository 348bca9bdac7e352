package bot

import (
	"fmt"
	"strings"
	"time"

	"raffle/bot/common"
	"raffle/events"
	"raffle/models"

	"github.com/bwmarrin/discordgo"
)

// BuildDrawResultEmbed creates the announcement for a resolved draw
func BuildDrawResultEmbed(e events.DrawResolvedEvent) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Timestamp: time.Now().Format(time.RFC3339),
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Draw %s", common.FormatDrawRef(e.DrawID)),
		},
	}

	if e.Status == models.DrawStatusCompleted {
		embed.Title = "🎉 Raffle Winner Drawn 🎉"
		embed.Color = common.ColorSuccess
		embed.Description = fmt.Sprintf("Ticket %s takes the prize of **%s**!",
			common.FormatDrawRef(e.WinningTicketID), common.FormatMoney(e.PrizeAmount))
		embed.Fields = []*discordgo.MessageEmbedField{
			{Name: "Tickets Sold", Value: fmt.Sprintf("%d", e.TotalTickets), Inline: true},
			{Name: "Prize", Value: common.FormatMoney(e.PrizeAmount), Inline: true},
		}
		return embed
	}

	embed.Title = "🚫 Raffle Cancelled"
	embed.Color = common.ColorWarning
	embed.Description = fmt.Sprintf("Only %d ticket(s) were sold (minimum %d). Every ticket has been refunded at **%s**.",
		e.RefundedTickets, models.MinimumTickets, common.FormatMoney(e.RefundAmountPerTicket))
	return embed
}

// BuildUpcomingDrawsEmbed lists draws still accepting tickets
func BuildUpcomingDrawsEmbed(draws []*models.DrawSummary) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:     "🎟️ Upcoming Raffles",
		Color:     common.ColorPrimary,
		Timestamp: time.Now().Format(time.RFC3339),
	}

	if len(draws) == 0 {
		embed.Description = "No draws are scheduled right now"
		return embed
	}

	lines := make([]string, 0, len(draws))
	for _, summary := range draws {
		lines = append(lines, fmt.Sprintf("**%s** %s · %s per ticket · %d sold · pool %s",
			common.FormatDrawRef(summary.Draw.ID),
			common.FormatDiscordTimestamp(summary.Draw.DrawTime, "R"),
			common.FormatMoney(summary.Draw.TicketPrice),
			summary.TicketCount,
			common.FormatMoney(summary.PrizePool())))
	}
	embed.Description = strings.Join(lines, "\n")
	return embed
}

// BuildWinnersEmbed lists recent winners
func BuildWinnersEmbed(winners []*models.Winner) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:     "🏆 Recent Winners",
		Color:     common.ColorPrimary,
		Timestamp: time.Now().Format(time.RFC3339),
	}

	if len(winners) == 0 {
		embed.Description = "No winners yet"
		return embed
	}

	lines := make([]string, 0, len(winners))
	for i, winner := range winners {
		lines = append(lines, fmt.Sprintf("%d. Draw **%s** · %s · %s",
			i+1,
			common.FormatDrawRef(winner.DrawID),
			common.FormatMoney(winner.PrizeAmount),
			common.FormatDiscordTimestamp(winner.AnnouncedAt, "d")))
	}
	embed.Description = strings.Join(lines, "\n")
	return embed
}
