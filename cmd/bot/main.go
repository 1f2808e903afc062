package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"

	discordadapter "github.com/jose-valero/faceit-elo-bot/internal/adapters/discord"
	"github.com/jose-valero/faceit-elo-bot/internal/adapters/faceit"
	httpfaceit "github.com/jose-valero/faceit-elo-bot/internal/adapters/httpfaceit"
	"github.com/jose-valero/faceit-elo-bot/internal/app/service"
	"github.com/jose-valero/faceit-elo-bot/internal/infra/config"
	"github.com/jose-valero/faceit-elo-bot/internal/infra/storage"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	_ = godotenv.Load()
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg := config.Load()

	// DB
	db, err := storage.Open(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	if err := storage.Migrate(db); err != nil {
		log.Fatal("migrate:", err)
	}
	log.Println("✅ DB lista y migrada")

	// Repos
	usersRepo := storage.NewUserRepo(db)
	matchesRepo := storage.NewMatchRepo(db)
	uiRepo := storage.NewUIRepo(db)

	// FACEIT client
	fc := faceit.New(cfg.FaceitAPIKey)

	// Discord session
	auth := cfg.DiscordToken
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(auth)), "bot ") {
		auth = "Bot " + strings.TrimSpace(auth)
	}
	s, err := discordgo.New(auth)
	if err != nil {
		log.Fatal(err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildVoiceStates | discordgo.IntentsGuildMembers
	if err := s.Open(); err != nil {
		log.Fatal(err)
	}
	defer s.Close()
	log.Printf("✅ Conectado como %s (%s)", s.State.User.Username, s.State.User.ID)

	// Presenter (todos los side effects de Discord pasan por acá)
	pres := discordadapter.NewPresenter(s, discordadapter.PresenterCfg{
		GuildID:          cfg.DiscordGuild,
		UpdatesChannelID: cfg.UpdatesChannelID,
		ScoresChannelID:  cfg.LiveScoresChannelID,
		VoiceCategoryID:  cfg.VoiceCategoryID,
		BotToken:         cfg.DiscordToken,
	}, uiRepo)

	// Services
	eloSvc := service.NewEloService(fc, usersRepo, pres)
	liveTracker := service.NewLiveScoreTracker(fc, usersRepo, matchesRepo, pres, cfg.LiveScorePoll)
	matchesSvc := service.NewMatchesService(fc, usersRepo, matchesRepo, pres, eloSvc, liveTracker)
	trackerSvc := service.NewTrackerService(fc, usersRepo, pres)

	// Webhook FACEIT
	web := httpfaceit.New(cfg.WebhookSecret, matchesSvc.HandleMatchEvent, eloSvc.ResyncAll)
	go web.Start(cfg.HTTPAddr)

	// Router
	r := discordadapter.NewRouter(s, cfg.DiscordGuild, trackerSvc, eloSvc)
	if err := r.Register(); err != nil {
		log.Fatalf("registrando comandos: %v", err)
	}
	r.Handlers()
	log.Printf("✅ comandos registrados en guild %s", cfg.DiscordGuild)

	// Retomar matches que quedaron vivos en el último deploy
	if err := matchesSvc.ResumeLive(context.Background()); err != nil {
		log.Printf("resume live: %v", err)
	}

	// Resync periódico de elo (0 = apagado)
	if cfg.EloResync > 0 {
		go func() {
			t := time.NewTicker(cfg.EloResync)
			defer t.Stop()
			for range t.C {
				ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
				if err := eloSvc.ResyncAll(ctx); err != nil {
					log.Printf("resync: %v", err)
				}
				cancel()
			}
		}()
	}

	// Esperar señal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-stop
	liveTracker.StopAll()
}
