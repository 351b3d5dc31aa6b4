package trivia

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Croissanton/Quiziosity/internal/domain"
)

// DefaultBaseURL points at the public trivia content API.
const DefaultBaseURL = "https://the-trivia-api.com"

const defaultLimit = 10

// Client fetches trivia questions over HTTP. An empty response is not an
// error; the app layer decides whether a round can start.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// apiQuestion mirrors the provider's wire format.
type apiQuestion struct {
	Question struct {
		Text string `json:"text"`
	} `json:"question"`
	CorrectAnswer    string   `json:"correctAnswer"`
	IncorrectAnswers []string `json:"incorrectAnswers"`
}

// FetchQuestions requests a question set for the given categories and
// language. A categories value of "any" (or none at all) leaves the category
// filter off.
func (c *Client) FetchQuestions(ctx context.Context, query domain.QuestionQuery) ([]domain.Question, error) {
	u, err := url.Parse(c.baseURL + "/api/questions")
	if err != nil {
		return nil, fmt.Errorf("trivia base url: %w", err)
	}

	params := u.Query()
	if categories := filterCategories(query.Categories); categories != "" {
		params.Set("categories", categories)
	}
	if query.Language != "" {
		params.Set("language", query.Language)
	}
	limit := query.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	params.Set("limit", strconv.Itoa(limit))
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build trivia request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch questions: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("trivia api: unexpected status %s", resp.Status)
	}

	var raw []apiQuestion
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}

	questions := make([]domain.Question, 0, len(raw))
	for _, q := range raw {
		questions = append(questions, domain.Question{
			Text:             q.Question.Text,
			CorrectAnswer:    q.CorrectAnswer,
			IncorrectAnswers: q.IncorrectAnswers,
		})
	}
	return questions, nil
}

func filterCategories(categories []string) string {
	kept := make([]string, 0, len(categories))
	for _, c := range categories {
		if c == "" || c == "any" {
			continue
		}
		kept = append(kept, c)
	}
	return strings.Join(kept, ",")
}
