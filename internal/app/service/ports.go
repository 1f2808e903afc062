package service

import (
	"context"

	"github.com/jose-valero/faceit-elo-bot/internal/domain"
	"github.com/jose-valero/faceit-elo-bot/internal/infra/storage"
)

// Lo implementa internal/adapters/faceit.Client
type FaceitAPI interface {
	GetPlayerByNickname(ctx context.Context, nick string) (*domain.Player, error)
	GetPlayerByGameID(ctx context.Context, gamePlayerID string) (*domain.Player, error)
	GetMatch(ctx context.Context, matchID string) (*domain.MatchRoom, error)
	GetLiveScore(ctx context.Context, matchID, factionID string) (string, error)
	GetFinalScore(ctx context.Context, matchID, factionID string) (string, bool, error)
	GetPlayerStats(ctx context.Context, matchID string, playerIDs []string) ([]domain.PlayerStats, error)
}

// Lo implementa internal/infra/storage.UserRepo
type UserRepo interface {
	Add(ctx context.Context, u storage.TrackedUser) (int64, error)
	All(ctx context.Context) ([]storage.TrackedUser, error)
	GetByDiscordUsername(ctx context.Context, discordUsername string) (storage.TrackedUser, error)
	UpdateElo(ctx context.Context, userID int64, newElo int) error
	Remove(ctx context.Context, discordUsername string) error
	FindByFaceitIDs(ctx context.Context, ids []string) ([]storage.TrackedUser, error)
}

// Lo implementa internal/infra/storage.MatchRepo
type MatchRepo interface {
	Exists(ctx context.Context, matchID string) (bool, error)
	Insert(ctx context.Context, m storage.Match) error
	Get(ctx context.Context, matchID string) (storage.Match, error)
	MarkComplete(ctx context.Context, matchID string) error
	MarkFinishProcessed(ctx context.Context, matchID string) error
	IsFinishProcessed(ctx context.Context, matchID string) (bool, error)
	UpdateScoreCard(ctx context.Context, matchID, messageID, score string) error
	ListUnfinished(ctx context.Context) ([]storage.Match, error)
}

// Lo implementa internal/adapters/discord.Presenter
type Presenter interface {
	// voz
	FindVoiceChannel(discordUsernames []string) (channelID string, ok bool)
	SetVoiceStatus(ctx context.Context, channelID, status string) error

	// cards de live score (correlación por matchID en el footer)
	CreateScoreCard(ctx context.Context, card domain.LiveCard) (messageID string, err error)
	// UpdateScoreCard edita el card existente; si el mensaje ya no está
	// (borrado a mano), crea uno nuevo y devuelve su id.
	UpdateScoreCard(ctx context.Context, messageID string, card domain.LiveCard) (newMessageID string, err error)
	DeleteScoreCard(ctx context.Context, messageID, matchID string) error

	// side effects por usuario
	SetMemberEloTag(ctx context.Context, discordUsername string, elo int) error
	SetMemberLevelRole(ctx context.Context, discordUsername string, level int) error

	// notificaciones
	SendFinishNotification(ctx context.Context, n domain.FinishNotification) error
	PostEloSummary(ctx context.Context, rows []domain.EloSummaryRow) error
	UpdateLeaderboard(ctx context.Context, rows []domain.LeaderboardRow) error
}
