package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Croissanton/Quiziosity/internal/domain"
)

// UserStore keeps player profiles and best scores in memory.
type UserStore struct {
	mu    sync.RWMutex
	clock func() time.Time
	users map[string]domain.User
}

func NewUserStore() *UserStore {
	return &UserStore{
		clock: time.Now,
		users: make(map[string]domain.User),
	}
}

// SaveScore records the score if it beats the user's current best.
func (s *UserStore) SaveScore(_ context.Context, username string, score int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[username]
	if ok && user.Score >= score {
		return nil
	}
	s.users[username] = domain.User{
		Username:    username,
		Score:       score,
		LastUpdated: s.clock(),
	}
	return nil
}

func (s *UserStore) GetUser(_ context.Context, username string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[username]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return user, nil
}

// TopScores returns users ordered by score descending; ties go to whoever
// reached the score earlier, then by name.
func (s *UserStore) TopScores(_ context.Context, offset, limit int) ([]domain.User, error) {
	s.mu.RLock()
	users := make([]domain.User, 0, len(s.users))
	for _, user := range s.users {
		users = append(users, user)
	}
	s.mu.RUnlock()

	sort.Slice(users, func(i, j int) bool {
		if users[i].Score != users[j].Score {
			return users[i].Score > users[j].Score
		}
		if !users[i].LastUpdated.Equal(users[j].LastUpdated) {
			return users[i].LastUpdated.Before(users[j].LastUpdated)
		}
		return users[i].Username < users[j].Username
	})

	if offset >= len(users) {
		return nil, nil
	}
	users = users[offset:]
	if limit > 0 && limit < len(users) {
		users = users[:limit]
	}
	return users, nil
}
