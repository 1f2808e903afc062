package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"

	"github.com/jose-valero/faceit-elo-bot/internal/domain"
	"github.com/jose-valero/faceit-elo-bot/internal/infra/storage"
)

const initialScore = "0:0"

// MatchesService: la máquina de estados del ciclo de vida de un match.
// Los webhooks llegan at-least-once y en paralelo; los guards
// Exists/IsFinishProcessed hacen idempotentes las transiciones y el lock
// por match serializa entregas duplicadas que llegan a la vez.
type MatchesService struct {
	fc      FaceitAPI
	users   UserRepo
	matches MatchRepo
	pres    Presenter
	elo     *EloService
	tracker *LiveScoreTracker

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewMatchesService(fc FaceitAPI, users UserRepo, matches MatchRepo, pres Presenter, elo *EloService, tracker *LiveScoreTracker) *MatchesService {
	return &MatchesService{
		fc:      fc,
		users:   users,
		matches: matches,
		pres:    pres,
		elo:     elo,
		tracker: tracker,
		locks:   map[string]*sync.Mutex{},
	}
}

// lockMatch serializa todo el trabajo de un match_id. Sin esto, dos webhooks
// "ready" duplicados concurrentes pasan ambos el guard Exists y crean dos
// cards (el registro sólo guarda un score_message_id, el otro queda huérfano).
func (s *MatchesService) lockMatch(matchID string) func() {
	s.mu.Lock()
	l, ok := s.locks[matchID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[matchID] = l
	}
	s.mu.Unlock()
	l.Lock()
	return l.Unlock
}

// HandleMatchEvent: entrada desde el webhook ("match_status_*" ya recortado).
func (s *MatchesService) HandleMatchEvent(ctx context.Context, matchID, status string) {
	status = strings.ToLower(status)
	log.Printf("[matches] evt match=%s status=%s", matchID, status)

	switch {
	case strings.Contains(status, "ready") || strings.Contains(status, "ongoing"):
		if err := s.StartMatch(ctx, matchID); err != nil {
			log.Printf("[matches] start %s: %v", matchID, err)
		}
	case strings.Contains(status, "finished"):
		if err := s.EndMatch(ctx, matchID); err != nil {
			log.Printf("[matches] end %s: %v", matchID, err)
		}
	case strings.Contains(status, "cancelled") || strings.Contains(status, "aborted"):
		if err := s.CancelMatch(ctx, matchID); err != nil {
			log.Printf("[matches] cancel %s: %v", matchID, err)
		}
	default:
		// otros estados (configuring, voting...) no nos interesan
	}
}

// StartMatch procesa "ready": deduplica, arma el registro con los usuarios
// trackeados del roster, resuelve el canal de voz y arranca el live tracking.
func (s *MatchesService) StartMatch(ctx context.Context, matchID string) error {
	unlock := s.lockMatch(matchID)
	defer unlock()
	return s.startMatch(ctx, matchID)
}

func (s *MatchesService) startMatch(ctx context.Context, matchID string) error {
	exists, err := s.matches.Exists(ctx, matchID)
	if err != nil {
		return err
	}
	if exists {
		log.Printf("[matches] match %s ya registrado, webhook duplicado", matchID)
		return nil
	}

	room, err := s.fc.GetMatch(ctx, matchID)
	if err != nil {
		// transitorio: el próximo redelivery reintenta
		log.Printf("[matches] fetch match %s: %v", matchID, err)
		return nil
	}
	if room.BestOf > 1 {
		log.Printf("[matches] match %s es bo%d, no se trackea", matchID, room.BestOf)
		return nil
	}

	rec, tracked, ok, err := s.buildRecord(ctx, room)
	if err != nil {
		return err
	}
	if !ok {
		log.Printf("[matches] match %s sin jugadores trackeados", matchID)
		return nil
	}

	// ¿alguno de los nuestros está en voz? → status de canal
	if chID, found := s.pres.FindVoiceChannel(discordNames(tracked)); found {
		rec.VoiceChannelID = chID
		if err := s.pres.SetVoiceStatus(ctx, chID, liveStatusText(initialScore)); err != nil {
			log.Printf("[matches] voice status %s: %v", matchID, err)
		}
	}

	card := domain.LiveCard{
		MatchID: matchID,
		MapName: rec.MapName,
		Score:   initialScore,
		Players: faceitNames(tracked),
	}
	if msgID, err := s.pres.CreateScoreCard(ctx, card); err != nil {
		log.Printf("[matches] score card %s: %v", matchID, err)
	} else {
		rec.ScoreMessageID = msgID
	}
	rec.LastRenderedScore = initialScore

	if err := s.matches.Insert(ctx, rec); err != nil {
		return err
	}
	s.tracker.Start(matchID)
	return nil
}

// EndMatch procesa "finished". El guard es is_finish_processed, que se marca
// recién después de intentar todos los side effects: un crash a mitad de
// camino permite reintentar con el redelivery (a costa de alguna
// notificación duplicada).
func (s *MatchesService) EndMatch(ctx context.Context, matchID string) error {
	unlock := s.lockMatch(matchID)
	defer unlock()
	return s.endMatch(ctx, matchID)
}

func (s *MatchesService) endMatch(ctx context.Context, matchID string) error {
	processed, err := s.matches.IsFinishProcessed(ctx, matchID)
	if err != nil {
		return err
	}
	if processed {
		log.Printf("[matches] match %s ya procesado", matchID)
		return nil
	}

	rec, err := s.matches.Get(ctx, matchID)
	if errors.Is(err, storage.ErrNotFound) {
		// finished sin ready previo: refetch completo y reintento
		log.Printf("[matches] match %s sin registro previo, refetch completo", matchID)
		if err := s.startMatch(ctx, matchID); err != nil {
			return err
		}
		rec, err = s.matches.Get(ctx, matchID)
		if errors.Is(err, storage.ErrNotFound) {
			log.Printf("[matches] match %s no reconstruible, se descarta", matchID)
			return nil
		}
	}
	if err != nil {
		return err
	}

	s.tracker.Stop(matchID)

	tracked, err := s.trackedUsers(ctx, rec.TrackedUserIDs)
	if err != nil {
		return err
	}

	// falla transitoria de FACEIT: abortamos antes de cualquier side effect;
	// el flag queda sin marcar y el próximo redelivery reintenta entero
	score, win, err := s.fc.GetFinalScore(ctx, matchID, rec.TeamFactionID)
	if err != nil {
		return fmt.Errorf("score final de %s: %w", matchID, err)
	}

	stats, err := s.fc.GetPlayerStats(ctx, matchID, faceitIDs(tracked))
	if err != nil {
		return fmt.Errorf("stats de %s: %w", matchID, err)
	}
	statsBy := make(map[string]domain.PlayerStats, len(stats))
	for _, st := range stats {
		statsBy[st.PlayerID] = st
	}

	// propagación por usuario, aislada: la falla de uno no frena al resto
	var rows []domain.FinishRow
	for _, u := range tracked {
		delta, err := s.elo.UpdateOne(ctx, u)
		if err != nil {
			log.Printf("[matches] elo %s: %v", u.DiscordUsername, err)
			continue
		}
		rows = append(rows, domain.FinishRow{
			Nickname: u.FaceitUsername,
			Stats:    statsBy[u.FaceitPlayerID],
			Delta:    delta,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Stats.Kills > rows[j].Stats.Kills })

	if err := s.pres.SendFinishNotification(ctx, domain.FinishNotification{
		MatchID: matchID,
		MapName: rec.MapName,
		Score:   score,
		Win:     win,
		Rows:    rows,
	}); err != nil {
		log.Printf("[matches] notificación %s: %v", matchID, err)
	}

	if rec.VoiceChannelID != "" {
		if err := s.pres.SetVoiceStatus(ctx, rec.VoiceChannelID, ""); err != nil {
			log.Printf("[matches] limpiar voice status %s: %v", matchID, err)
		}
	}
	if err := s.pres.DeleteScoreCard(ctx, rec.ScoreMessageID, matchID); err != nil {
		log.Printf("[matches] borrar card %s: %v", matchID, err)
	}
	s.refreshLeaderboard(ctx)

	if err := s.matches.MarkFinishProcessed(ctx, matchID); err != nil {
		return err
	}
	return s.matches.MarkComplete(ctx, matchID)
}

// CancelMatch: terminal sin side effects de finish (un match cancelado no
// tiene score final).
func (s *MatchesService) CancelMatch(ctx context.Context, matchID string) error {
	unlock := s.lockMatch(matchID)
	defer unlock()

	rec, err := s.matches.Get(ctx, matchID)
	if errors.Is(err, storage.ErrNotFound) {
		log.Printf("[matches] cancel %s: sin registro, no-op", matchID)
		return nil
	}
	if err != nil {
		return err
	}

	s.tracker.Stop(matchID)

	if rec.VoiceChannelID != "" {
		if err := s.pres.SetVoiceStatus(ctx, rec.VoiceChannelID, ""); err != nil {
			log.Printf("[matches] limpiar voice status %s: %v", matchID, err)
		}
	}
	if err := s.pres.DeleteScoreCard(ctx, rec.ScoreMessageID, matchID); err != nil {
		log.Printf("[matches] borrar card %s: %v", matchID, err)
	}
	return s.matches.MarkComplete(ctx, matchID)
}

// ResumeLive: al boot, retoma el tracking de matches que quedaron vivos.
func (s *MatchesService) ResumeLive(ctx context.Context) error {
	open, err := s.matches.ListUnfinished(ctx)
	if err != nil {
		return err
	}
	for _, m := range open {
		log.Printf("[matches] retomando live tracking match=%s", m.MatchID)
		s.tracker.Start(m.MatchID)
	}
	return nil
}

// ---------- internos ----------

// buildRecord resuelve qué usuarios trackeados juegan este match y en qué
// facción. ok=false cuando ninguno de los nuestros está en el roster.
func (s *MatchesService) buildRecord(ctx context.Context, room *domain.MatchRoom) (storage.Match, []storage.TrackedUser, bool, error) {
	var ids []string
	for _, f := range room.Factions {
		for _, p := range f.Roster {
			ids = append(ids, p.PlayerID)
		}
	}
	tracked, err := s.users.FindByFaceitIDs(ctx, ids)
	if err != nil {
		return storage.Match{}, nil, false, err
	}
	if len(tracked) == 0 {
		return storage.Match{}, nil, false, nil
	}

	trackedSet := make(map[string]bool, len(tracked))
	for _, u := range tracked {
		trackedSet[u.FaceitPlayerID] = true
	}

	// la facción "nuestra" es la que contiene al primer trackeado
	var faction domain.Faction
	for _, f := range room.Factions {
		for _, p := range f.Roster {
			if trackedSet[p.PlayerID] {
				faction = f
				break
			}
		}
		if faction.ID != "" {
			break
		}
	}

	// sólo cuentan los trackeados de esa facción
	inFaction := make(map[string]bool, len(faction.Roster))
	for _, p := range faction.Roster {
		inFaction[p.PlayerID] = true
	}
	var team []storage.TrackedUser
	var userIDs []int64
	for _, u := range tracked {
		if inFaction[u.FaceitPlayerID] {
			team = append(team, u)
			userIDs = append(userIDs, u.UserID)
		}
	}

	rec := storage.Match{
		MatchID:        room.MatchID,
		MapName:        room.MapName,
		TrackedUserIDs: userIDs,
		TeamFactionID:  faction.ID,
	}
	return rec, team, true, nil
}

// trackedUsers: snapshot actual de los user_ids del registro. Referencias
// débiles: un usuario borrado simplemente no aparece.
func (s *MatchesService) trackedUsers(ctx context.Context, userIDs []int64) ([]storage.TrackedUser, error) {
	all, err := s.users.All(ctx)
	if err != nil {
		return nil, err
	}
	want := make(map[int64]bool, len(userIDs))
	for _, id := range userIDs {
		want[id] = true
	}
	var out []storage.TrackedUser
	for _, u := range all {
		if want[u.UserID] {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *MatchesService) refreshLeaderboard(ctx context.Context) {
	all, err := s.users.All(ctx)
	if err != nil {
		log.Printf("[matches] leaderboard: %v", err)
		return
	}
	rows := leaderboardRows(all)
	if err := s.pres.UpdateLeaderboard(ctx, rows); err != nil {
		log.Printf("[matches] leaderboard: %v", err)
	}
}

func leaderboardRows(users []storage.TrackedUser) []domain.LeaderboardRow {
	sorted := make([]storage.TrackedUser, len(users))
	copy(sorted, users)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].PreviousElo > sorted[j].PreviousElo })

	rows := make([]domain.LeaderboardRow, 0, len(sorted))
	for _, u := range sorted {
		rows = append(rows, domain.LeaderboardRow{
			DiscordUsername: u.DiscordUsername,
			FaceitUsername:  u.FaceitUsername,
			Elo:             u.PreviousElo,
		})
	}
	return rows
}

func discordNames(users []storage.TrackedUser) []string {
	out := make([]string, 0, len(users))
	for _, u := range users {
		out = append(out, u.DiscordUsername)
	}
	return out
}

func faceitNames(users []storage.TrackedUser) []string {
	out := make([]string, 0, len(users))
	for _, u := range users {
		out = append(out, u.FaceitUsername)
	}
	return out
}

func faceitIDs(users []storage.TrackedUser) []string {
	out := make([]string, 0, len(users))
	for _, u := range users {
		out = append(out, u.FaceitPlayerID)
	}
	return out
}
