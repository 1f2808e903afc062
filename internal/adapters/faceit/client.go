package faceit

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"

	"github.com/jose-valero/faceit-elo-bot/internal/domain"
)

const game = "cs2"

// GetPlayerByNickname: lookup al registrar (/track nick).
func (c *Client) GetPlayerByNickname(ctx context.Context, nick string) (*domain.Player, error) {
	q := url.Values{}
	q.Set("nickname", nick)
	q.Set("game", game)

	var dto playerDTO
	if err := c.doJSON(ctx, "GET", "/players", q, &dto); err != nil {
		return nil, err
	}
	g, ok := dto.Games[game]
	if !ok {
		return nil, fmt.Errorf("player %s: sin datos de %s", nick, game)
	}
	return &domain.Player{
		ID:           dto.PlayerID,
		GamePlayerID: g.GamePlayerID,
		Nickname:     dto.Nickname,
		Elo:          g.FaceitElo,
		Skill:        g.SkillLevel,
	}, nil
}

// GetPlayerByGameID: refetch de elo actual vía game_player_id.
func (c *Client) GetPlayerByGameID(ctx context.Context, gamePlayerID string) (*domain.Player, error) {
	q := url.Values{}
	q.Set("game", game)
	q.Set("game_player_id", gamePlayerID)

	var dto playerDTO
	if err := c.doJSON(ctx, "GET", "/players", q, &dto); err != nil {
		return nil, err
	}
	g, ok := dto.Games[game]
	if !ok {
		return nil, fmt.Errorf("game player %s: sin datos de %s", gamePlayerID, game)
	}
	return &domain.Player{
		ID:           dto.PlayerID,
		GamePlayerID: gamePlayerID,
		Nickname:     dto.Nickname,
		Elo:          g.FaceitElo,
		Skill:        g.SkillLevel,
	}, nil
}

// GetMatch: detalle del matchroom mapeado a dominio.
func (c *Client) GetMatch(ctx context.Context, matchID string) (*domain.MatchRoom, error) {
	var dto matchDTO
	if err := c.doJSON(ctx, "GET", fmt.Sprintf("/matches/%s", matchID), nil, &dto); err != nil {
		return nil, err
	}

	room := &domain.MatchRoom{
		MatchID:  dto.MatchID,
		BestOf:   dto.BestOf,
		Finished: dto.Results.Winner != "",
	}
	if picks := dto.Voting.Map.Pick; len(picks) > 0 {
		room.MapName = picks[0]
	}

	// teams viene como map ("faction1"/"faction2"); orden estable
	keys := make([]string, 0, len(dto.Teams))
	for k := range dto.Teams {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		t := dto.Teams[k]
		f := domain.Faction{ID: t.FactionID, Name: t.Name}
		for _, p := range t.Roster {
			f.Roster = append(f.Roster, domain.RosterPlayer{
				PlayerID:     p.PlayerID,
				GamePlayerID: p.GamePlayerID,
				Nickname:     p.Nickname,
			})
		}
		room.Factions = append(room.Factions, f)
	}
	return room, nil
}

// GetLiveScore: score actual "A:B" con el score del equipo trackeado primero.
func (c *Client) GetLiveScore(ctx context.Context, matchID, factionID string) (string, error) {
	var dto matchDTO
	if err := c.doJSON(ctx, "GET", fmt.Sprintf("/matches/%s", matchID), nil, &dto); err != nil {
		return "", err
	}
	return orientedScore(&dto, factionID)
}

// GetFinalScore: score final orientado + si el equipo trackeado ganó.
func (c *Client) GetFinalScore(ctx context.Context, matchID, factionID string) (string, bool, error) {
	var dto matchDTO
	if err := c.doJSON(ctx, "GET", fmt.Sprintf("/matches/%s", matchID), nil, &dto); err != nil {
		return "", false, err
	}
	score, err := orientedScore(&dto, factionID)
	if err != nil {
		return "", false, err
	}
	win := false
	if w, ok := dto.Teams[dto.Results.Winner]; ok {
		win = w.FactionID == factionID
	}
	return score, win, nil
}

// GetPlayerStats: K/D/A final de los playerIDs pedidos.
func (c *Client) GetPlayerStats(ctx context.Context, matchID string, playerIDs []string) ([]domain.PlayerStats, error) {
	var dto matchStatsDTO
	if err := c.doJSON(ctx, "GET", fmt.Sprintf("/matches/%s/stats", matchID), nil, &dto); err != nil {
		return nil, err
	}
	if len(dto.Rounds) == 0 {
		return nil, fmt.Errorf("match %s: sin rounds en stats", matchID)
	}

	want := make(map[string]bool, len(playerIDs))
	for _, id := range playerIDs {
		want[id] = true
	}

	var out []domain.PlayerStats
	for _, t := range dto.Rounds[0].Teams {
		for _, p := range t.Players {
			if !want[p.PlayerID] {
				continue
			}
			kills, _ := strconv.Atoi(p.Stats.Kills)
			deaths, _ := strconv.Atoi(p.Stats.Deaths)
			assists, _ := strconv.Atoi(p.Stats.Assists)
			out = append(out, domain.PlayerStats{
				PlayerID: p.PlayerID,
				Nickname: p.Nickname,
				Kills:    kills,
				Deaths:   deaths,
				Assists:  assists,
			})
		}
	}
	return out, nil
}

func orientedScore(dto *matchDTO, factionID string) (string, error) {
	// ¿a qué key ("faction1"/"faction2") pertenece el factionID?
	var ours, theirs string
	for key, t := range dto.Teams {
		if t.FactionID == factionID {
			ours = key
		} else {
			theirs = key
		}
	}
	if ours == "" || theirs == "" {
		return "", fmt.Errorf("faction %s no está en el match %s", factionID, dto.MatchID)
	}
	if dto.Results.Score == nil {
		return "0:0", nil
	}
	return fmt.Sprintf("%d:%d", dto.Results.Score[ours], dto.Results.Score[theirs]), nil
}
