package service

import (
	"context"
	"log"

	"github.com/jose-valero/faceit-elo-bot/internal/domain"
	"github.com/jose-valero/faceit-elo-bot/internal/infra/storage"
)

// EloService propaga cambios de elo a Discord (nickname + rol de nivel)
// y al snapshot en la base.
type EloService struct {
	fc    FaceitAPI
	users UserRepo
	pres  Presenter
}

func NewEloService(fc FaceitAPI, users UserRepo, pres Presenter) *EloService {
	return &EloService{fc: fc, users: users, pres: pres}
}

// UpdateOne trae el elo actual del usuario y, si cambió, propaga nickname,
// rol y previous_elo. Las fallas parciales se loguean y no abortan: el
// resync periódico corrige lo que haya quedado a medias.
func (s *EloService) UpdateOne(ctx context.Context, u storage.TrackedUser) (domain.EloDelta, error) {
	p, err := s.fc.GetPlayerByGameID(ctx, u.GamePlayerID)
	if err != nil {
		return domain.EloDelta{}, err
	}

	delta := domain.EloDiff(u.PreviousElo, p.Elo)
	if delta.Unchanged() {
		return delta, nil
	}

	if err := s.pres.SetMemberEloTag(ctx, u.DiscordUsername, p.Elo); err != nil {
		log.Printf("[elo] nickname %s: %v", u.DiscordUsername, err)
	}
	if err := s.pres.SetMemberLevelRole(ctx, u.DiscordUsername, domain.SkillLevelForElo(p.Elo)); err != nil {
		log.Printf("[elo] rol %s: %v", u.DiscordUsername, err)
	}
	if err := s.users.UpdateElo(ctx, u.UserID, p.Elo); err != nil {
		log.Printf("[elo] snapshot %s: %v", u.DiscordUsername, err)
	}
	return delta, nil
}

// ResyncAll recorre todos los usuarios trackeados y postea un resumen con
// los que cambiaron. Es el fallback programado contra propagaciones a medias.
func (s *EloService) ResyncAll(ctx context.Context) error {
	users, err := s.users.All(ctx)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		log.Println("[elo] resync: no hay usuarios")
		return nil
	}

	var rows []domain.EloSummaryRow
	for _, u := range users {
		delta, err := s.UpdateOne(ctx, u)
		if err != nil {
			log.Printf("[elo] resync %s: %v", u.DiscordUsername, err)
			continue
		}
		if delta.Unchanged() {
			continue
		}
		rows = append(rows, domain.EloSummaryRow{
			DiscordUsername: u.DiscordUsername,
			FaceitUsername:  u.FaceitUsername,
			Previous:        u.PreviousElo,
			Delta:           delta,
		})
	}

	if len(rows) == 0 {
		return nil
	}
	return s.pres.PostEloSummary(ctx, rows)
}
