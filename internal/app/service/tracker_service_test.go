package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jose-valero/faceit-elo-bot/internal/domain"
	"github.com/jose-valero/faceit-elo-bot/internal/infra/storage"
)

func TestTrackRegistraYAplicaTag(t *testing.T) {
	fc := newFakeFaceit()
	fc.playersByNick["nuevo"] = &domain.Player{ID: "fp-n", GamePlayerID: "gp-n", Nickname: "nuevo", Elo: 1800, Skill: 9}
	users := newFakeUsers()
	pres := newFakePresenter()
	svc := NewTrackerService(fc, users, pres)

	msg, err := svc.Track(context.Background(), "nuevo#d", "nuevo")
	require.NoError(t, err)
	assert.Contains(t, msg, "nuevo")
	assert.Contains(t, msg, "1800")

	u, err := users.GetByDiscordUsername(context.Background(), "nuevo#d")
	require.NoError(t, err)
	assert.Equal(t, 1800, u.PreviousElo)
	assert.Equal(t, "fp-n", u.FaceitPlayerID)

	assert.Equal(t, []int{1800}, pres.eloTags["nuevo#d"])
	assert.Equal(t, []int{9}, pres.levelRoles["nuevo#d"])
}

func TestTrackNicknameInvalido(t *testing.T) {
	fc := newFakeFaceit()
	users := newFakeUsers()
	svc := NewTrackerService(fc, users, newFakePresenter())

	msg, err := svc.Track(context.Background(), "alguien#d", "no-existe")
	require.NoError(t, err, "un nick inválido es respuesta al usuario, no error")
	assert.Contains(t, msg, "inválido")

	all, _ := users.All(context.Background())
	assert.Empty(t, all)
}

func TestTrackDuplicado(t *testing.T) {
	fc := newFakeFaceit()
	fc.playersByNick["uno"] = &domain.Player{ID: "fp-1", GamePlayerID: "gp-1", Nickname: "uno", Elo: 1500, Skill: 7}
	users := newFakeUsers(testUsers()...)
	svc := NewTrackerService(fc, users, newFakePresenter())

	msg, err := svc.Track(context.Background(), "uno#d", "uno")
	require.NoError(t, err)
	assert.Contains(t, msg, "Ya estás en el tracker")
}

func TestUntrack(t *testing.T) {
	users := newFakeUsers(testUsers()...)
	svc := NewTrackerService(newFakeFaceit(), users, newFakePresenter())

	msg, err := svc.Untrack(context.Background(), "uno#d")
	require.NoError(t, err)
	assert.Contains(t, msg, "fuera del tracker")

	msg, err = svc.Untrack(context.Background(), "uno#d")
	require.NoError(t, err)
	assert.Contains(t, msg, "No estabas")
}

func TestLeaderboardOrdenadoPorElo(t *testing.T) {
	users := newFakeUsers(
		storage.TrackedUser{UserID: 1, DiscordUsername: "a#d", FaceitUsername: "a", FaceitPlayerID: "fp-a", PreviousElo: 1200},
		storage.TrackedUser{UserID: 2, DiscordUsername: "b#d", FaceitUsername: "b", FaceitPlayerID: "fp-b", PreviousElo: 2100},
		storage.TrackedUser{UserID: 3, DiscordUsername: "c#d", FaceitUsername: "c", FaceitPlayerID: "fp-c", PreviousElo: 1750},
	)
	svc := NewTrackerService(newFakeFaceit(), users, newFakePresenter())

	rows, err := svc.Leaderboard(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "b", rows[0].FaceitUsername)
	assert.Equal(t, "c", rows[1].FaceitUsername)
	assert.Equal(t, "a", rows[2].FaceitUsername)
}
