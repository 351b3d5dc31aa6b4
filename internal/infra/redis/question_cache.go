package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/Croissanton/Quiziosity/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// QuestionLoader fetches question sets from a backing provider (trivia API).
type QuestionLoader interface {
	FetchQuestions(ctx context.Context, query domain.QuestionQuery) ([]domain.Question, error)
}

// QuestionCache stores fetched question sets as JSON blobs in Redis, keyed by
// the query, and falls back to the loader on a miss.
type QuestionCache struct {
	client *redis.Client
	loader QuestionLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewQuestionCache(client *redis.Client, loader QuestionLoader, ttl time.Duration) *QuestionCache {
	return &QuestionCache{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *QuestionCache) GetQuestions(ctx context.Context, query domain.QuestionQuery) ([]domain.Question, error) {
	key := c.key(query)

	if cached, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var questions []domain.Question
		if err := json.Unmarshal(cached, &questions); err == nil {
			return questions, nil
		}
		// Corrupt entry: fall through and refetch.
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		// Re-check in case another goroutine filled the cache.
		if cached, err := c.client.Get(ctx, key).Bytes(); err == nil {
			var questions []domain.Question
			if err := json.Unmarshal(cached, &questions); err == nil {
				return questions, nil
			}
		}

		questions, err := c.loader.FetchQuestions(ctx, query)
		if err != nil {
			return nil, err
		}

		if data, err := json.Marshal(questions); err == nil {
			_ = c.client.Set(ctx, key, data, c.ttlWithJitter()).Err()
		}
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func (c *QuestionCache) key(query domain.QuestionQuery) string {
	return "trivia:questions:" + query.CacheKey()
}

func (c *QuestionCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
