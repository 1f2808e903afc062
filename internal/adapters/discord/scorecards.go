package discord

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/jose-valero/faceit-elo-bot/internal/domain"
)

const liveCardColor = 0x464dd4

func liveCardEmbed(card domain.LiveCard) *discordgo.MessageEmbed {
	players := strings.Join(card.Players, ", ")
	if players == "" {
		players = "—"
	}
	return &discordgo.MessageEmbed{
		Title: "🔴 Match en vivo",
		Color: liveCardColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Jugadores", Value: players},
			{Name: "Mapa", Value: fmt.Sprintf("%s %s", mapBadge(card.MapName), formattedMapName(card.MapName)), Inline: true},
			{Name: "Score en vivo", Value: fmt.Sprintf("**%s**", card.Score), Inline: true},
			{Name: "Link al match", Value: fmt.Sprintf("https://www.faceit.com/en/cs2/room/%s", card.MatchID)},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: card.MatchID},
	}
}

func (p *Presenter) CreateScoreCard(ctx context.Context, card domain.LiveCard) (string, error) {
	msg, err := p.s.ChannelMessageSendEmbed(p.scoresChannelID, liveCardEmbed(card), discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("crear score card: %w", err)
	}
	return msg.ID, nil
}

// UpdateScoreCard edita el card existente. Si el mensaje guardado ya no está
// (lo borró alguien a mano), intenta encontrarlo por footer y si tampoco,
// crea uno nuevo. Devuelve el id vigente.
func (p *Presenter) UpdateScoreCard(ctx context.Context, messageID string, card domain.LiveCard) (string, error) {
	embed := liveCardEmbed(card)

	if messageID != "" {
		_, err := p.s.ChannelMessageEditEmbed(p.scoresChannelID, messageID, embed, discordgo.WithContext(ctx))
		if err == nil {
			return messageID, nil
		}
		log.Printf("[discord] edit card match=%s msg=%s: %v", card.MatchID, messageID, err)
	}

	if id := p.findCardByFooter(ctx, card.MatchID); id != "" {
		if _, err := p.s.ChannelMessageEditEmbed(p.scoresChannelID, id, embed, discordgo.WithContext(ctx)); err == nil {
			return id, nil
		}
	}

	return p.CreateScoreCard(ctx, card)
}

func (p *Presenter) DeleteScoreCard(ctx context.Context, messageID, matchID string) error {
	if messageID != "" {
		if err := p.s.ChannelMessageDelete(p.scoresChannelID, messageID, discordgo.WithContext(ctx)); err == nil {
			return nil
		}
	}
	if id := p.findCardByFooter(ctx, matchID); id != "" {
		return p.s.ChannelMessageDelete(p.scoresChannelID, id, discordgo.WithContext(ctx))
	}
	return nil
}

// findCardByFooter: escaneo de los últimos mensajes del canal de scores,
// correlacionando por matchID en el footer del embed.
func (p *Presenter) findCardByFooter(ctx context.Context, matchID string) string {
	msgs, err := p.s.ChannelMessages(p.scoresChannelID, 10, "", "", "", discordgo.WithContext(ctx))
	if err != nil {
		log.Printf("[discord] scan cards: %v", err)
		return ""
	}
	for _, m := range msgs {
		for _, e := range m.Embeds {
			if e.Footer != nil && e.Footer.Text == matchID {
				return m.ID
			}
		}
	}
	return ""
}
