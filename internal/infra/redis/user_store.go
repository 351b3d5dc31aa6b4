package redis

import (
	"context"
	"errors"
	"time"

	"github.com/Croissanton/Quiziosity/internal/domain"
	"github.com/redis/go-redis/v9"
)

const scoresKey = "quiziosity:scores"

// UserStore keeps best scores in a Redis sorted set, so the leaderboard is a
// single ZREVRANGE away.
type UserStore struct {
	client *redis.Client
}

func NewUserStore(client *redis.Client) *UserStore {
	return &UserStore{client: client}
}

// SaveScore records the score if it beats the user's current best. ZADD GT
// keeps the write atomic, so concurrent session ends cannot regress the best.
func (s *UserStore) SaveScore(ctx context.Context, username string, score int) error {
	return s.client.ZAddGT(ctx, scoresKey, redis.Z{
		Score:  float64(score),
		Member: username,
	}).Err()
}

func (s *UserStore) GetUser(ctx context.Context, username string) (domain.User, error) {
	score, err := s.client.ZScore(ctx, scoresKey, username).Result()
	if errors.Is(err, redis.Nil) {
		return domain.User{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, err
	}
	return domain.User{Username: username, Score: int(score)}, nil
}

// TopScores returns users ordered by best score descending.
func (s *UserStore) TopScores(ctx context.Context, offset, limit int) ([]domain.User, error) {
	if limit <= 0 {
		limit = 10
	}
	entries, err := s.client.ZRevRangeWithScores(ctx, scoresKey, int64(offset), int64(offset+limit-1)).Result()
	if err != nil {
		return nil, err
	}
	users := make([]domain.User, 0, len(entries))
	for _, entry := range entries {
		username, _ := entry.Member.(string)
		users = append(users, domain.User{
			Username:    username,
			Score:       int(entry.Score),
			LastUpdated: time.Time{}, // not tracked in the sorted set
		})
	}
	return users, nil
}
