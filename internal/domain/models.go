package domain

// Player es la vista mínima de un jugador FACEIT que usamos en el bot.
type Player struct {
	ID           string // faceit player_id
	GamePlayerID string // id del juego (cs2), distinto del player_id
	Nickname     string
	Elo          int
	Skill        int
}

// RosterPlayer: un jugador dentro del roster de una facción.
type RosterPlayer struct {
	PlayerID     string
	GamePlayerID string
	Nickname     string
}

// Faction es uno de los dos equipos de un matchroom.
type Faction struct {
	ID     string
	Name   string
	Roster []RosterPlayer
}

// MatchRoom: detalle de un match recién armado (o en curso).
type MatchRoom struct {
	MatchID  string
	MapName  string
	BestOf   int
	Finished bool
	Factions []Faction // siempre 2 cuando el match es válido
}

// PlayerStats: stats finales por jugador (K/D/A).
type PlayerStats struct {
	PlayerID string
	Nickname string
	Kills    int
	Deaths   int
	Assists  int
}

// FinishRow: una fila del scoreboard final (stats + cambio de elo).
type FinishRow struct {
	Nickname string
	Stats    PlayerStats
	Delta    EloDelta
}

// LeaderboardRow: entrada del leaderboard del clan, ordenado por elo.
type LeaderboardRow struct {
	DiscordUsername string
	FaceitUsername  string
	Elo             int
}

// LiveCard: datos para renderizar (o re-renderizar) el card de live score.
type LiveCard struct {
	MatchID string
	MapName string
	Score   string
	Players []string // faceit usernames trackeados en el match
}

// FinishNotification: payload del embed de fin de partida.
type FinishNotification struct {
	MatchID string
	MapName string
	Score   string
	Win     bool
	Rows    []FinishRow
}

// EloSummaryRow: una línea del resumen automático de elo.
type EloSummaryRow struct {
	DiscordUsername string
	FaceitUsername  string
	Previous        int
	Delta           EloDelta
}
