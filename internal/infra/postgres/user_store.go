package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Croissanton/Quiziosity/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// UserStore persists player profiles and best scores in Postgres.
type UserStore struct {
	pool *pgxpool.Pool
}

func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{pool: pool}
}

// SaveScore upserts the user's best score.
func (s *UserStore) SaveScore(ctx context.Context, username string, score int) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (username, score, last_updated)
		VALUES ($1, $2, now())
		ON CONFLICT (username) DO UPDATE
		SET score = EXCLUDED.score, last_updated = now()
		WHERE EXCLUDED.score > users.score`,
		username, score,
	)
	if err != nil {
		return fmt.Errorf("save score: %w", err)
	}
	return nil
}

func (s *UserStore) GetUser(ctx context.Context, username string) (domain.User, error) {
	var user domain.User
	err := s.pool.QueryRow(ctx,
		`SELECT username, score, last_updated FROM users WHERE username=$1`,
		username,
	).Scan(&user.Username, &user.Score, &user.LastUpdated)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// TopScores pages through users by score descending, earliest update first on
// ties.
func (s *UserStore) TopScores(ctx context.Context, offset, limit int) ([]domain.User, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.pool.Query(ctx, `
		SELECT username, score, last_updated FROM users
		ORDER BY score DESC, last_updated ASC, username ASC
		LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("top scores: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(&user.Username, &user.Score, &user.LastUpdated); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}
