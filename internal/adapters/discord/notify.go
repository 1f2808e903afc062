package discord

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/jose-valero/faceit-elo-bot/internal/domain"
	"github.com/jose-valero/faceit-elo-bot/internal/infra/storage"
)

const (
	winColor  = 0x2ecc71
	lossColor = 0xe74c3c
)

// SendFinishNotification manda el embed de fin de partida al canal de updates:
// resultado, mapa y el scoreboard de los trackeados con su cambio de elo.
func (p *Presenter) SendFinishNotification(ctx context.Context, n domain.FinishNotification) error {
	title := fmt.Sprintf("🏆 Victoria %s", n.Score)
	color := winColor
	if !n.Win {
		title = fmt.Sprintf("💀 Derrota %s", n.Score)
		color = lossColor
	}

	var b strings.Builder
	b.WriteString("```\n")
	fmt.Fprintf(&b, "%-18s %-8s %s\n", "Jugador", "K/D/A", "Elo")
	for _, row := range n.Rows {
		kda := fmt.Sprintf("%d/%d/%d", row.Stats.Kills, row.Stats.Deaths, row.Stats.Assists)
		fmt.Fprintf(&b, "%-18s %-8s %s\n", row.Nickname, kda, row.Delta.String())
	}
	b.WriteString("```")

	embed := &discordgo.MessageEmbed{
		Title: title,
		Color: color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Mapa", Value: fmt.Sprintf("%s %s", mapBadge(n.MapName), formattedMapName(n.MapName)), Inline: true},
			{Name: "Scoreboard", Value: b.String()},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: n.MatchID},
	}
	_, err := p.s.ChannelMessageSendEmbed(p.updatesChannelID, embed, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("notificación de fin: %w", err)
	}
	return nil
}

// PostEloSummary: resumen automático de elo (lo dispara el ticker de resync).
// Sólo postea si hubo algún cambio.
func (p *Presenter) PostEloSummary(ctx context.Context, rows []domain.EloSummaryRow) error {
	changed := rows[:0:0]
	for _, r := range rows {
		if !r.Delta.Unchanged() {
			changed = append(changed, r)
		}
	}
	if len(changed) == 0 {
		return nil
	}

	var b strings.Builder
	for _, r := range changed {
		fmt.Fprintf(&b, "**%s** (%s): %d → %s\n", r.DiscordUsername, r.FaceitUsername, r.Previous, r.Delta.String())
	}
	embed := &discordgo.MessageEmbed{
		Title:       "🔔 Resumen automático de elo",
		Color:       liveCardColor,
		Description: b.String(),
	}
	_, err := p.s.ChannelMessageSendEmbed(p.updatesChannelID, embed, discordgo.WithContext(ctx))
	return err
}

// UpdateLeaderboard mantiene un único embed de leaderboard editado in-place.
// La ubicación (canal + mensaje) se persiste en guild_ui; si el mensaje
// desapareció se crea de nuevo.
func (p *Presenter) UpdateLeaderboard(ctx context.Context, rows []domain.LeaderboardRow) error {
	var b strings.Builder
	for i, r := range rows {
		medal := fmt.Sprintf("`#%d`", i+1)
		switch i {
		case 0:
			medal = "🥇"
		case 1:
			medal = "🥈"
		case 2:
			medal = "🥉"
		}
		lvl := domain.SkillLevelForElo(r.Elo)
		fmt.Fprintf(&b, "%s %s **%s** — Elo %d\n", medal, levelBadge(lvl), r.FaceitUsername, r.Elo)
	}
	if b.Len() == 0 {
		b.WriteString("_Todavía no hay nadie trackeado._")
	}
	embed := &discordgo.MessageEmbed{
		Title:       "📊 Leaderboard del clan",
		Color:       liveCardColor,
		Description: b.String(),
	}

	ui, err := p.ui.Get(ctx, p.guildID)
	if err == nil {
		_, editErr := p.s.ChannelMessageEditEmbed(ui.LeaderboardChannelID, ui.LeaderboardMessageID, embed, discordgo.WithContext(ctx))
		if editErr == nil {
			return nil
		}
		log.Printf("[discord] edit leaderboard: %v", editErr)
	} else if err != storage.ErrNotFound {
		return err
	}

	msg, err := p.s.ChannelMessageSendEmbed(p.updatesChannelID, embed, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("publicar leaderboard: %w", err)
	}
	return p.ui.Upsert(ctx, p.guildID, p.updatesChannelID, msg.ID)
}
