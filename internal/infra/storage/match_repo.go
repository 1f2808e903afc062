package storage

import (
	"context"
	"database/sql"
	"log"
	"time"

	pq "github.com/lib/pq"
)

// Match: registro durable de un match trackeado.
// tracked_user_ids son referencias débiles a users (borrar un user no rompe
// el historial de matches).
type Match struct {
	MatchID           string
	MapName           string
	TrackedUserIDs    []int64
	TeamFactionID     string
	VoiceChannelID    string // vacío = nadie estaba en voz
	ScoreMessageID    string // card de live score; vacío = todavía no se creó
	LastRenderedScore string
	IsComplete        bool
	IsFinishProcessed bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type MatchRepo struct{ db *sql.DB }

func NewMatchRepo(db *sql.DB) *MatchRepo { return &MatchRepo{db: db} }

func (r *MatchRepo) Exists(ctx context.Context, matchID string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM matches_played WHERE match_id = $1`, matchID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}

// Insert persiste el match. Idempotente: si la fila ya existe no es error.
// Un match sin jugadores trackeados no se persiste (se loguea y listo).
func (r *MatchRepo) Insert(ctx context.Context, m Match) error {
	if len(m.TrackedUserIDs) == 0 {
		log.Printf("[store] match %s sin jugadores trackeados, no se persiste", m.MatchID)
		return nil
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO matches_played
  (match_id, map_name, tracked_user_ids, team_faction_id, voice_channel_id, score_message_id, last_rendered_score)
VALUES ($1,$2,$3,$4,NULLIF($5,''),NULLIF($6,''),$7)
ON CONFLICT (match_id) DO NOTHING
`, m.MatchID, m.MapName, pq.Array(m.TrackedUserIDs), m.TeamFactionID,
		m.VoiceChannelID, m.ScoreMessageID, m.LastRenderedScore)
	return err
}

func (r *MatchRepo) Get(ctx context.Context, matchID string) (Match, error) {
	var (
		m       Match
		voiceID sql.NullString
		msgID   sql.NullString
		userIDs pq.Int64Array
	)
	err := r.db.QueryRowContext(ctx, `
SELECT match_id, map_name, tracked_user_ids, team_faction_id, voice_channel_id,
       score_message_id, last_rendered_score, is_complete, is_finish_processed,
       created_at, updated_at
  FROM matches_played
 WHERE match_id = $1
`, matchID).Scan(&m.MatchID, &m.MapName, &userIDs, &m.TeamFactionID, &voiceID,
		&msgID, &m.LastRenderedScore, &m.IsComplete, &m.IsFinishProcessed,
		&m.CreatedAt, &m.UpdatedAt)
	if err == sql.ErrNoRows {
		return Match{}, ErrNotFound
	}
	if err != nil {
		return Match{}, err
	}
	m.TrackedUserIDs = userIDs
	m.VoiceChannelID = voiceID.String
	m.ScoreMessageID = msgID.String
	return m, nil
}

// MarkComplete: idempotente, is_complete nunca vuelve a false.
func (r *MatchRepo) MarkComplete(ctx context.Context, matchID string) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE matches_played SET is_complete = TRUE, updated_at = now() WHERE match_id = $1
`, matchID)
	return err
}

// MarkFinishProcessed: idempotente, independiente de is_complete.
func (r *MatchRepo) MarkFinishProcessed(ctx context.Context, matchID string) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE matches_played SET is_finish_processed = TRUE, updated_at = now() WHERE match_id = $1
`, matchID)
	return err
}

func (r *MatchRepo) IsFinishProcessed(ctx context.Context, matchID string) (bool, error) {
	var v bool
	err := r.db.QueryRowContext(ctx, `
SELECT is_finish_processed FROM matches_played WHERE match_id = $1
`, matchID).Scan(&v)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return v, err
}

// UpdateScoreCard actualiza la referencia al card y el último score
// renderizado en un solo UPDATE (both-or-neither para el caller).
func (r *MatchRepo) UpdateScoreCard(ctx context.Context, matchID, messageID, score string) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE matches_played
   SET score_message_id    = NULLIF($2,''),
       last_rendered_score = $3,
       updated_at          = now()
 WHERE match_id = $1
`, matchID, messageID, score)
	return err
}

// ListUnfinished: matches que quedaron vivos (para retomar tracking al boot).
func (r *MatchRepo) ListUnfinished(ctx context.Context) ([]Match, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT match_id, map_name, tracked_user_ids, team_faction_id, voice_channel_id,
       score_message_id, last_rendered_score, is_complete, is_finish_processed,
       created_at, updated_at
  FROM matches_played
 WHERE NOT is_complete
 ORDER BY created_at
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Match
	for rows.Next() {
		var (
			m       Match
			voiceID sql.NullString
			msgID   sql.NullString
			userIDs pq.Int64Array
		)
		if err := rows.Scan(&m.MatchID, &m.MapName, &userIDs, &m.TeamFactionID, &voiceID,
			&msgID, &m.LastRenderedScore, &m.IsComplete, &m.IsFinishProcessed,
			&m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		m.TrackedUserIDs = userIDs
		m.VoiceChannelID = voiceID.String
		m.ScoreMessageID = msgID.String
		out = append(out, m)
	}
	return out, rows.Err()
}
