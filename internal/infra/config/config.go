package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	DatabaseURL   string
	DiscordToken  string
	DiscordGuild  string
	FaceitAPIKey  string
	WebhookSecret string
	HTTPAddr      string // opcional, default :8080

	// Canales de presentación
	UpdatesChannelID    string // notificaciones de match finish / resumen de elo
	LiveScoresChannelID string // cards de live score
	VoiceCategoryID     string // opcional: limita el scan de voz a esta categoría

	// Intervalos (opcionales)
	LiveScorePoll time.Duration // default 15s
	EloResync     time.Duration // default 0 = apagado
}

func Load() Config {
	get := func(k string, req bool) string {
		v := os.Getenv(k)
		if v == "" && req {
			log.Fatalf("faltante env %s", k)
		}
		return v
	}
	seconds := func(k string, def int) time.Duration {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				return time.Duration(n) * time.Second
			}
		}
		return time.Duration(def) * time.Second
	}

	cfg := Config{
		DatabaseURL:   get("DATABASE_URL", true),
		DiscordToken:  get("DISCORD_BOT_TOKEN", true),
		DiscordGuild:  get("DISCORD_GUILD_ID", true),
		FaceitAPIKey:  get("FACEIT_API_KEY", true),
		WebhookSecret: get("FACEIT_WEBHOOK_SECRET", true),
		HTTPAddr:      get("HTTP_ADDR", false),

		UpdatesChannelID:    get("BOT_UPDATES_CHANNEL_ID", true),
		LiveScoresChannelID: get("LIVE_SCORES_CHANNEL_ID", true),
		VoiceCategoryID:     get("VOICE_CATEGORY_ID", false),

		LiveScorePoll: seconds("LIVE_SCORE_POLL_SECONDS", 15),
		EloResync:     seconds("ELO_RESYNC_SECONDS", 0),
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}
	return cfg
}
