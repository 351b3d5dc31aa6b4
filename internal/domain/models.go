package domain

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// Question is a single trivia question as fetched from the content provider.
// Immutable once loaded; the game never rewrites answer text.
type Question struct {
	Text             string   `json:"text"`
	CorrectAnswer    string   `json:"correctAnswer"`
	IncorrectAnswers []string `json:"incorrectAnswers"` // always three of them
}

// User represents a player profile with their best recorded score.
type User struct {
	Username    string    `json:"username"`
	Score       int       `json:"score"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// QuestionQuery identifies a question set request against the trivia provider.
type QuestionQuery struct {
	Categories []string
	Language   string
	Limit      int
}

// CacheKey is a stable identifier for a query, independent of category order.
func (q QuestionQuery) CacheKey() string {
	categories := append([]string(nil), q.Categories...)
	sort.Strings(categories)
	return strings.Join(categories, ",") + "|" + q.Language + "|" + strconv.Itoa(q.Limit)
}
