package faceit

// --- Players ---
type playerDTO struct {
	PlayerID string `json:"player_id"`
	Nickname string `json:"nickname"`
	Games    map[string]struct {
		FaceitElo    int    `json:"faceit_elo"`
		SkillLevel   int    `json:"skill_level"`
		GamePlayerID string `json:"game_player_id"`
	} `json:"games"`
}

// --- Matches (detalle del matchroom) ---
type matchDTO struct {
	MatchID string `json:"match_id"`
	BestOf  int    `json:"best_of"`
	Voting  struct {
		Map struct {
			Pick []string `json:"pick"`
		} `json:"map"`
	} `json:"voting"`
	Teams map[string]struct {
		FactionID string `json:"faction_id"`
		Name      string `json:"name"`
		Roster    []struct {
			PlayerID     string `json:"player_id"`
			GamePlayerID string `json:"game_player_id"`
			Nickname     string `json:"nickname"`
		} `json:"roster"`
	} `json:"teams"`
	Results struct {
		Winner string         `json:"winner"`
		Score  map[string]int `json:"score"` // "faction1" -> rondas ganadas
	} `json:"results"`
}

// --- Match Stats (post-partida) ---
type matchStatsDTO struct {
	Rounds []struct {
		RoundStats struct {
			Score  string `json:"Score"`
			Winner string `json:"Winner"`
		} `json:"round_stats"`
		Teams []struct {
			TeamID  string `json:"team_id"`
			Players []struct {
				PlayerID string `json:"player_id"`
				Nickname string `json:"nickname"`
				Stats    struct {
					Kills   string `json:"Kills"`
					Deaths  string `json:"Deaths"`
					Assists string `json:"Assists"`
				} `json:"player_stats"`
			} `json:"players"`
		} `json:"teams"`
	} `json:"rounds"`
}
