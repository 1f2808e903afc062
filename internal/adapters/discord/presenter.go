package discord

import (
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/jose-valero/faceit-elo-bot/internal/infra/storage"
)

// Presenter: todos los side effects de presentación sobre Discord
// (status de voz, cards de score, nicknames, roles, embeds).
// Implementa service.Presenter.
type Presenter struct {
	s       *discordgo.Session
	guildID string

	updatesChannelID string // notificaciones + resumen de elo
	scoresChannelID  string // cards de live score
	voiceCategoryID  string // opcional: limita el scan de voz

	ui    *storage.UIRepo // ubicación del embed de leaderboard
	token string          // para el endpoint raw de voice-status
	http  *http.Client
}

type PresenterCfg struct {
	GuildID          string
	UpdatesChannelID string
	ScoresChannelID  string
	VoiceCategoryID  string
	BotToken         string
}

func NewPresenter(s *discordgo.Session, cfg PresenterCfg, ui *storage.UIRepo) *Presenter {
	token := strings.TrimSpace(cfg.BotToken)
	if !strings.HasPrefix(strings.ToLower(token), "bot ") {
		token = "Bot " + token
	}
	return &Presenter{
		s:                s,
		guildID:          cfg.GuildID,
		updatesChannelID: cfg.UpdatesChannelID,
		scoresChannelID:  cfg.ScoresChannelID,
		voiceCategoryID:  cfg.VoiceCategoryID,
		ui:               ui,
		token:            token,
		http:             &http.Client{Timeout: 10 * time.Second},
	}
}

func (p *Presenter) safeGetChannel(id string) (*discordgo.Channel, error) {
	if ch, err := p.s.State.Channel(id); err == nil && ch != nil {
		return ch, nil
	}
	ch, err := p.s.Channel(id)
	if err != nil {
		return nil, err
	}
	_ = p.s.State.ChannelAdd(ch)
	return ch, nil
}
