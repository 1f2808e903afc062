package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	pq "github.com/lib/pq"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already tracked")
)

// TrackedUser: jugador registrado en el tracker (discord ↔ faceit ↔ último elo).
type TrackedUser struct {
	UserID          int64
	DiscordUsername string
	FaceitUsername  string
	FaceitPlayerID  string
	GamePlayerID    string
	PreviousElo     int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type UserRepo struct{ db *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// Add inserta un usuario nuevo. Violación de unique (discord, game id o
// faceit id ya registrado) se traduce a ErrDuplicate.
func (r *UserRepo) Add(ctx context.Context, u TrackedUser) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
INSERT INTO users (discord_username, faceit_username, faceit_player_id, game_player_id, previous_elo)
VALUES ($1,$2,$3,$4,$5)
RETURNING user_id
`, u.DiscordUsername, u.FaceitUsername, u.FaceitPlayerID, u.GamePlayerID, u.PreviousElo).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, ErrDuplicate
		}
		return 0, err
	}
	return id, nil
}

// All devuelve un snapshot de todos los usuarios trackeados.
func (r *UserRepo) All(ctx context.Context) ([]TrackedUser, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT user_id, discord_username, faceit_username, faceit_player_id, game_player_id, previous_elo, created_at, updated_at
  FROM users
 ORDER BY user_id
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TrackedUser
	for rows.Next() {
		var u TrackedUser
		if err := rows.Scan(&u.UserID, &u.DiscordUsername, &u.FaceitUsername, &u.FaceitPlayerID,
			&u.GamePlayerID, &u.PreviousElo, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *UserRepo) GetByDiscordUsername(ctx context.Context, discordUsername string) (TrackedUser, error) {
	var u TrackedUser
	err := r.db.QueryRowContext(ctx, `
SELECT user_id, discord_username, faceit_username, faceit_player_id, game_player_id, previous_elo, created_at, updated_at
  FROM users
 WHERE discord_username = $1
`, discordUsername).Scan(&u.UserID, &u.DiscordUsername, &u.FaceitUsername, &u.FaceitPlayerID,
		&u.GamePlayerID, &u.PreviousElo, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return TrackedUser{}, ErrNotFound
	}
	return u, err
}

// UpdateElo pisa previous_elo después de una propagación exitosa.
func (r *UserRepo) UpdateElo(ctx context.Context, userID int64, newElo int) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE users
   SET previous_elo = $1,
       updated_at   = now()
 WHERE user_id = $2
`, newElo, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepo) Remove(ctx context.Context, discordUsername string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE discord_username = $1`, discordUsername)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// FindByFaceitIDs: snapshot de los usuarios cuyos faceit_player_id estén en ids.
func (r *UserRepo) FindByFaceitIDs(ctx context.Context, ids []string) ([]TrackedUser, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT user_id, discord_username, faceit_username, faceit_player_id, game_player_id, previous_elo, created_at, updated_at
  FROM users
 WHERE faceit_player_id = ANY($1)
`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TrackedUser
	for rows.Next() {
		var u TrackedUser
		if err := rows.Scan(&u.UserID, &u.DiscordUsername, &u.FaceitUsername, &u.FaceitPlayerID,
			&u.GamePlayerID, &u.PreviousElo, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
