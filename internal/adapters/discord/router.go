package discord

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/jose-valero/faceit-elo-bot/internal/app/service"
	"github.com/jose-valero/faceit-elo-bot/internal/domain"
)

type Router struct {
	s       *discordgo.Session
	guildID string

	tracker *service.TrackerService
	elo     *service.EloService

	limiter *userLimiter
}

func NewRouter(s *discordgo.Session, guildID string, tracker *service.TrackerService, elo *service.EloService) *Router {
	return &Router{
		s:       s,
		guildID: guildID,
		tracker: tracker,
		elo:     elo,
		limiter: newUserLimiter(3 * time.Second),
	}
}

func (r *Router) Register() error {
	appID := r.s.State.User.ID
	for _, cmd := range Commands {
		if _, err := r.s.ApplicationCommandCreate(appID, r.guildID, cmd); err != nil {
			return err
		}
	}
	return nil
}

func (r *Router) Handlers() {
	r.s.AddHandler(func(s *discordgo.Session, ic *discordgo.InteractionCreate) {
		if ic.Type != discordgo.InteractionApplicationCommand {
			return
		}
		data := ic.ApplicationCommandData()
		log.Printf("slash: /%s by=%s guild=%s", data.Name, ic.Member.User.ID, ic.GuildID)

		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("panic in slash /%s: %v", data.Name, rec)
				ReplyEphemeral(s, ic, "⚠️ Ocurrió un error inesperado.")
			}
		}()

		if !r.limiter.Allow(ic.Member.User.ID) {
			_ = SendEphemeral(s, ic, "🐢 Tranqui, esperá unos segundos entre comandos.")
			return
		}

		_ = DeferEphemeral(s, ic)
		ctx, cancel := context.WithTimeout(context.Background(), 12*time.Second)
		defer cancel()

		switch data.Name {
		case "track":
			nick := data.Options[0].StringValue()
			msg, err := r.tracker.Track(ctx, ic.Member.User.Username, nick)
			if err != nil {
				msg = "⚠️ No se pudo trackear: " + err.Error()
			}
			ReplyEphemeral(s, ic, msg)

		case "untrack":
			msg, err := r.tracker.Untrack(ctx, ic.Member.User.Username)
			if err != nil {
				msg = "⚠️ No se pudo destrackear: " + err.Error()
			}
			ReplyEphemeral(s, ic, msg)

		case "elo":
			nick := data.Options[0].StringValue()
			msg, err := r.tracker.Describe(ctx, nick)
			if err != nil {
				msg = "⚠️ No pude obtener el jugador: " + err.Error()
			}
			ReplyEphemeral(s, ic, msg)

		case "leaderboard":
			rows, err := r.tracker.Leaderboard(ctx)
			if err != nil {
				ReplyEphemeral(s, ic, "⚠️ No pude armar el leaderboard: "+err.Error())
				return
			}
			ReplyEphemeral(s, ic, leaderboardText(rows))

		case "resync":
			if !r.requireAdmin(s, ic) {
				return
			}
			if err := r.elo.ResyncAll(ctx); err != nil {
				ReplyEphemeral(s, ic, "⚠️ Resync falló: "+err.Error())
				return
			}
			ReplyEphemeral(s, ic, "✅ Resync de elo completado.")
		}
	})
}

func leaderboardText(rows []domain.LeaderboardRow) string {
	if len(rows) == 0 {
		return "ℹ️ Todavía no hay nadie trackeado. Usa `/track nick:<tu_nick_FACEIT>`."
	}
	var b strings.Builder
	b.WriteString("📊 **Leaderboard del clan**\n")
	for i, row := range rows {
		lvl := domain.SkillLevelForElo(row.Elo)
		fmt.Fprintf(&b, "`#%d` %s **%s** — Elo %d\n", i+1, levelBadge(lvl), row.FaceitUsername, row.Elo)
	}
	return b.String()
}
