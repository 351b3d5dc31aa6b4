package redis

import (
	"context"
	"testing"
	"time"

	"github.com/Croissanton/Quiziosity/internal/domain"
	"github.com/Croissanton/Quiziosity/internal/infra/memory"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestQuestionCacheCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)
	query := domain.QuestionQuery{Categories: []string{"science"}, Language: "en", Limit: 10}

	loader := &countingLoader{
		QuestionLoader: memory.NewStaticQuestionLoader(map[string][]domain.Question{
			query.CacheKey(): sampleQuestions(),
		}),
	}
	cache := NewQuestionCache(client, loader, time.Minute)

	questions, err := cache.GetQuestions(context.Background(), query)
	if err != nil {
		t.Fatalf("get questions: %v", err)
	}
	if len(questions) != 1 || questions[0].CorrectAnswer != "4" {
		t.Fatalf("unexpected questions: %+v", questions)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}
	if !mr.Exists("trivia:questions:" + query.CacheKey()) {
		t.Fatalf("expected cache key in redis")
	}

	// Second call should hit redis, loader not incremented.
	if _, err := cache.GetQuestions(context.Background(), query); err != nil {
		t.Fatalf("get questions 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
}

type countingLoader struct {
	memory.QuestionLoader
	calls int
}

func (l *countingLoader) FetchQuestions(ctx context.Context, query domain.QuestionQuery) ([]domain.Question, error) {
	l.calls++
	return l.QuestionLoader.FetchQuestions(ctx, query)
}

func sampleQuestions() []domain.Question {
	return []domain.Question{
		{
			Text:             "What is 2 + 2?",
			CorrectAnswer:    "4",
			IncorrectAnswers: []string{"3", "5", "22"},
		},
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
