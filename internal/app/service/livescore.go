package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/jose-valero/faceit-elo-bot/internal/domain"
)

func liveStatusText(score string) string {
	return fmt.Sprintf("🚨 LIVE (CS) %s", score)
}

type liveTask struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// LiveScoreTracker: una goroutine por match en vivo que pollea el score y
// re-renderiza el card / status de voz sólo cuando el score cambió.
type LiveScoreTracker struct {
	fc      FaceitAPI
	users   UserRepo
	matches MatchRepo
	pres    Presenter

	interval time.Duration

	mu     sync.Mutex
	active map[string]*liveTask
}

func NewLiveScoreTracker(fc FaceitAPI, users UserRepo, matches MatchRepo, pres Presenter, interval time.Duration) *LiveScoreTracker {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &LiveScoreTracker{
		fc:       fc,
		users:    users,
		matches:  matches,
		pres:     pres,
		interval: interval,
		active:   make(map[string]*liveTask),
	}
}

// Start arranca el tracking de un match. No-op si ya estaba activo
// (la unicidad por match_id la garantiza este registry).
func (t *LiveScoreTracker) Start(matchID string) {
	t.mu.Lock()
	if _, ok := t.active[matchID]; ok {
		t.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	task := &liveTask{cancel: cancel, done: make(chan struct{})}
	t.active[matchID] = task
	t.mu.Unlock()

	log.Printf("[live] tracking iniciado match=%s", matchID)
	go t.run(ctx, matchID, task.done)
}

// Stop cancela el task del match y espera a que termine. Un poll que ya
// estaba en vuelo se descarta sin renderizar.
func (t *LiveScoreTracker) Stop(matchID string) {
	t.mu.Lock()
	task, ok := t.active[matchID]
	if ok {
		delete(t.active, matchID)
	}
	t.mu.Unlock()
	if !ok {
		return
	}
	task.cancel()
	<-task.done
	log.Printf("[live] tracking detenido match=%s", matchID)
}

// StopAll: shutdown ordenado del proceso.
func (t *LiveScoreTracker) StopAll() {
	t.mu.Lock()
	ids := make([]string, 0, len(t.active))
	for id := range t.active {
		ids = append(ids, id)
	}
	t.mu.Unlock()
	for _, id := range ids {
		t.Stop(id)
	}
}

// Active: true si el match tiene un task corriendo.
func (t *LiveScoreTracker) Active(matchID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.active[matchID]
	return ok
}

func (t *LiveScoreTracker) run(ctx context.Context, matchID string, done chan struct{}) {
	defer close(done)

	tk := time.NewTicker(t.interval)
	defer tk.Stop()

	t.pollOnce(ctx, matchID)
	for {
		select {
		case <-ctx.Done():
			return
		case <-tk.C:
			t.pollOnce(ctx, matchID)
		}
	}
}

func (t *LiveScoreTracker) pollOnce(ctx context.Context, matchID string) {
	rec, err := t.matches.Get(ctx, matchID)
	if err != nil {
		log.Printf("[live] get match=%s: %v", matchID, err)
		return
	}
	if rec.IsComplete {
		return
	}

	score, err := t.fc.GetLiveScore(ctx, matchID, rec.TeamFactionID)
	if err != nil {
		log.Printf("[live] score match=%s: %v", matchID, err)
		return
	}
	if score == rec.LastRenderedScore {
		return
	}
	// cancelado con el poll en vuelo: el resultado se descarta, no se renderiza
	if ctx.Err() != nil {
		return
	}

	card := domain.LiveCard{
		MatchID: matchID,
		MapName: rec.MapName,
		Score:   score,
		Players: t.playerNames(ctx, rec.TrackedUserIDs),
	}
	msgID, err := t.pres.UpdateScoreCard(ctx, rec.ScoreMessageID, card)
	if err != nil {
		log.Printf("[live] render match=%s: %v", matchID, err)
		return
	}
	if rec.VoiceChannelID != "" {
		if err := t.pres.SetVoiceStatus(ctx, rec.VoiceChannelID, liveStatusText(score)); err != nil {
			log.Printf("[live] voice status match=%s: %v", matchID, err)
		}
	}
	// last_rendered_score recién después de un render confirmado
	if err := t.matches.UpdateScoreCard(ctx, matchID, msgID, score); err != nil {
		log.Printf("[live] persist score match=%s: %v", matchID, err)
	}
}

// playerNames: nicknames de FACEIT de los user_ids del registro (para poder
// recrear el card si el mensaje original desapareció).
func (t *LiveScoreTracker) playerNames(ctx context.Context, userIDs []int64) []string {
	all, err := t.users.All(ctx)
	if err != nil {
		return nil
	}
	want := make(map[int64]bool, len(userIDs))
	for _, id := range userIDs {
		want[id] = true
	}
	var names []string
	for _, u := range all {
		if want[u.UserID] {
			names = append(names, u.FaceitUsername)
		}
	}
	return names
}
