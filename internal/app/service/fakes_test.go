package service

import (
	"context"
	"errors"
	"sync"

	"github.com/jose-valero/faceit-elo-bot/internal/domain"
	"github.com/jose-valero/faceit-elo-bot/internal/infra/storage"
)

var errPlayerNotFound = errors.New("player not found")

// Fakes in-memory de los puertos del servicio. Thread-safe porque el live
// tracker los toca desde sus goroutines.

type fakeFaceit struct {
	mu sync.Mutex

	playersByGameID map[string]*domain.Player
	playersByNick   map[string]*domain.Player

	room      *domain.MatchRoom
	roomErr   error
	roomCalls int
	// mismos ganchos que el live score: señal al entrar y bloqueo opcional
	roomPolling chan struct{}
	roomBlock   chan struct{}

	liveScore string
	liveErr   error
	liveCalls int
	// si livePolling no es nil, se señala al entrar a GetLiveScore;
	// si liveBlock no es nil, GetLiveScore espera ahí antes de responder
	livePolling chan struct{}
	liveBlock   chan struct{}

	finalScore string
	finalWin   bool
	finalErr   error
	stats      []domain.PlayerStats
	statsErr   error
}

func newFakeFaceit() *fakeFaceit {
	return &fakeFaceit{
		playersByGameID: map[string]*domain.Player{},
		playersByNick:   map[string]*domain.Player{},
	}
}

func (f *fakeFaceit) GetPlayerByNickname(_ context.Context, nick string) (*domain.Player, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.playersByNick[nick]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, errPlayerNotFound
}

func (f *fakeFaceit) GetPlayerByGameID(_ context.Context, gameID string) (*domain.Player, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.playersByGameID[gameID]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, errPlayerNotFound
}

func (f *fakeFaceit) GetMatch(ctx context.Context, _ string) (*domain.MatchRoom, error) {
	f.mu.Lock()
	f.roomCalls++
	polling, block := f.roomPolling, f.roomBlock
	roomErr := f.roomErr
	var cp domain.MatchRoom
	if f.room != nil {
		cp = *f.room
	}
	f.mu.Unlock()

	if polling != nil {
		select {
		case polling <- struct{}{}:
		default:
		}
	}
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
		}
	}
	if roomErr != nil {
		return nil, roomErr
	}
	return &cp, nil
}

func (f *fakeFaceit) GetLiveScore(ctx context.Context, _, _ string) (string, error) {
	f.mu.Lock()
	f.liveCalls++
	polling, block := f.livePolling, f.liveBlock
	score, err := f.liveScore, f.liveErr
	f.mu.Unlock()

	if polling != nil {
		select {
		case polling <- struct{}{}:
		default:
		}
	}
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
		}
	}
	return score, err
}

func (f *fakeFaceit) GetFinalScore(_ context.Context, _, _ string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.finalErr != nil {
		return "", false, f.finalErr
	}
	return f.finalScore, f.finalWin, nil
}

func (f *fakeFaceit) GetPlayerStats(_ context.Context, _ string, _ []string) ([]domain.PlayerStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.statsErr != nil {
		return nil, f.statsErr
	}
	return append([]domain.PlayerStats(nil), f.stats...), nil
}

type fakeUsers struct {
	mu    sync.Mutex
	users []storage.TrackedUser

	eloUpdates map[int64][]int // user_id → elos aplicados
}

func newFakeUsers(users ...storage.TrackedUser) *fakeUsers {
	return &fakeUsers{users: users, eloUpdates: map[int64][]int{}}
}

func (f *fakeUsers) Add(_ context.Context, u storage.TrackedUser) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.users {
		if e.DiscordUsername == u.DiscordUsername || e.FaceitPlayerID == u.FaceitPlayerID {
			return 0, storage.ErrDuplicate
		}
	}
	u.UserID = int64(len(f.users) + 1)
	f.users = append(f.users, u)
	return u.UserID, nil
}

func (f *fakeUsers) All(_ context.Context) ([]storage.TrackedUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]storage.TrackedUser(nil), f.users...), nil
}

func (f *fakeUsers) GetByDiscordUsername(_ context.Context, name string) (storage.TrackedUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.DiscordUsername == name {
			return u, nil
		}
	}
	return storage.TrackedUser{}, storage.ErrNotFound
}

func (f *fakeUsers) UpdateElo(_ context.Context, userID int64, newElo int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.users {
		if f.users[i].UserID == userID {
			f.users[i].PreviousElo = newElo
			f.eloUpdates[userID] = append(f.eloUpdates[userID], newElo)
			return nil
		}
	}
	return storage.ErrNotFound
}

func (f *fakeUsers) Remove(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, u := range f.users {
		if u.DiscordUsername == name {
			f.users = append(f.users[:i], f.users[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

func (f *fakeUsers) FindByFaceitIDs(_ context.Context, ids []string) ([]storage.TrackedUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	want := map[string]bool{}
	for _, id := range ids {
		want[id] = true
	}
	var out []storage.TrackedUser
	for _, u := range f.users {
		if want[u.FaceitPlayerID] {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakeMatches struct {
	mu      sync.Mutex
	rows    map[string]storage.Match
	inserts int
}

func newFakeMatches() *fakeMatches {
	return &fakeMatches{rows: map[string]storage.Match{}}
}

func (f *fakeMatches) Exists(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.rows[id]
	return ok, nil
}

func (f *fakeMatches) Insert(_ context.Context, m storage.Match) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(m.TrackedUserIDs) == 0 {
		return nil
	}
	if _, ok := f.rows[m.MatchID]; ok {
		return nil
	}
	f.inserts++
	f.rows[m.MatchID] = m
	return nil
}

func (f *fakeMatches) Get(_ context.Context, id string) (storage.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.rows[id]
	if !ok {
		return storage.Match{}, storage.ErrNotFound
	}
	return m, nil
}

func (f *fakeMatches) MarkComplete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := f.rows[id]; ok {
		m.IsComplete = true
		f.rows[id] = m
	}
	return nil
}

func (f *fakeMatches) MarkFinishProcessed(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := f.rows[id]; ok {
		m.IsFinishProcessed = true
		f.rows[id] = m
	}
	return nil
}

func (f *fakeMatches) IsFinishProcessed(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rows[id].IsFinishProcessed, nil
}

func (f *fakeMatches) UpdateScoreCard(_ context.Context, id, messageID, score string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := f.rows[id]; ok {
		m.ScoreMessageID = messageID
		m.LastRenderedScore = score
		f.rows[id] = m
	}
	return nil
}

func (f *fakeMatches) ListUnfinished(_ context.Context) ([]storage.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []storage.Match
	for _, m := range f.rows {
		if !m.IsComplete {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakePresenter struct {
	mu sync.Mutex

	voiceChannel string // lo devuelve FindVoiceChannel; vacío = nadie en voz

	voiceStatuses []string
	cardCreates   int
	cardUpdates   []domain.LiveCard
	cardDeletes   int
	eloTags       map[string][]int
	levelRoles    map[string][]int
	finishNotes   []domain.FinishNotification
	summaries     [][]domain.EloSummaryRow
	leaderboards  int
}

func newFakePresenter() *fakePresenter {
	return &fakePresenter{
		eloTags:    map[string][]int{},
		levelRoles: map[string][]int{},
	}
}

func (f *fakePresenter) FindVoiceChannel(_ []string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.voiceChannel, f.voiceChannel != ""
}

func (f *fakePresenter) SetVoiceStatus(_ context.Context, _, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.voiceStatuses = append(f.voiceStatuses, status)
	return nil
}

func (f *fakePresenter) CreateScoreCard(_ context.Context, card domain.LiveCard) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cardCreates++
	return "msg-" + card.MatchID, nil
}

func (f *fakePresenter) UpdateScoreCard(_ context.Context, messageID string, card domain.LiveCard) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cardUpdates = append(f.cardUpdates, card)
	if messageID == "" {
		return "msg-" + card.MatchID, nil
	}
	return messageID, nil
}

func (f *fakePresenter) DeleteScoreCard(_ context.Context, _, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cardDeletes++
	return nil
}

func (f *fakePresenter) SetMemberEloTag(_ context.Context, user string, elo int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.eloTags[user] = append(f.eloTags[user], elo)
	return nil
}

func (f *fakePresenter) SetMemberLevelRole(_ context.Context, user string, level int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.levelRoles[user] = append(f.levelRoles[user], level)
	return nil
}

func (f *fakePresenter) SendFinishNotification(_ context.Context, n domain.FinishNotification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finishNotes = append(f.finishNotes, n)
	return nil
}

func (f *fakePresenter) PostEloSummary(_ context.Context, rows []domain.EloSummaryRow) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.summaries = append(f.summaries, rows)
	return nil
}

func (f *fakePresenter) UpdateLeaderboard(_ context.Context, _ []domain.LeaderboardRow) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.leaderboards++
	return nil
}
