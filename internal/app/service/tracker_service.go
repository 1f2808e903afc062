package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jose-valero/faceit-elo-bot/internal/domain"
	"github.com/jose-valero/faceit-elo-bot/internal/infra/storage"
)

// TrackerService: registro y baja de usuarios en el tracker (/track, /untrack).
type TrackerService struct {
	fc    FaceitAPI
	users UserRepo
	pres  Presenter
}

func NewTrackerService(fc FaceitAPI, users UserRepo, pres Presenter) *TrackerService {
	return &TrackerService{fc: fc, users: users, pres: pres}
}

// Track registra al usuario: un lookup a FACEIT + un insert. El nickname y
// el rol se aplican de entrada para que el tag quede visible ya mismo.
func (s *TrackerService) Track(ctx context.Context, discordUsername, faceitNick string) (string, error) {
	p, err := s.fc.GetPlayerByNickname(ctx, faceitNick)
	if err != nil {
		return "⚠️ Nickname de FACEIT inválido. Ojo que es **case sensitive**.", nil
	}

	_, err = s.users.Add(ctx, storage.TrackedUser{
		DiscordUsername: discordUsername,
		FaceitUsername:  p.Nickname,
		FaceitPlayerID:  p.ID,
		GamePlayerID:    p.GamePlayerID,
		PreviousElo:     p.Elo,
	})
	if errors.Is(err, storage.ErrDuplicate) {
		return "😅 Ya estás en el tracker.", nil
	}
	if err != nil {
		return "", err
	}

	if err := s.pres.SetMemberEloTag(ctx, discordUsername, p.Elo); err != nil {
		log.Printf("[tracker] nickname %s: %v", discordUsername, err)
	}
	if err := s.pres.SetMemberLevelRole(ctx, discordUsername, domain.SkillLevelForElo(p.Elo)); err != nil {
		log.Printf("[tracker] rol %s: %v", discordUsername, err)
	}

	return fmt.Sprintf("☑️ Listo, **%s** (Elo %d) queda trackeado. Tu elo se actualiza solo después de cada partida.", p.Nickname, p.Elo), nil
}

func (s *TrackerService) Untrack(ctx context.Context, discordUsername string) (string, error) {
	err := s.users.Remove(ctx, discordUsername)
	if errors.Is(err, storage.ErrNotFound) {
		return "ℹ️ No estabas en el tracker.", nil
	}
	if err != nil {
		return "", err
	}
	return "✅ Listo, fuera del tracker.", nil
}

// Describe: lookup rápido de cualquier nickname (/elo nick).
func (s *TrackerService) Describe(ctx context.Context, nick string) (string, error) {
	p, err := s.fc.GetPlayerByNickname(ctx, nick)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("**%s** — Lvl %d | Elo %d", p.Nickname, p.Skill, p.Elo), nil
}

// Leaderboard: snapshot ordenado por elo para el embed.
func (s *TrackerService) Leaderboard(ctx context.Context) ([]domain.LeaderboardRow, error) {
	all, err := s.users.All(ctx)
	if err != nil {
		return nil, err
	}
	return leaderboardRows(all), nil
}
