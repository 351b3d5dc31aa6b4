package app

import (
	"context"
	"log"

	"github.com/Croissanton/Quiziosity/internal/domain"
	"github.com/Croissanton/Quiziosity/internal/game"
)

// SessionRepository tracks active game sessions by ID (in-memory; sessions
// hold live timers and never survive a process).
type SessionRepository interface {
	Put(id string, session *game.Session)
	Get(id string) (*game.Session, bool)
	Delete(id string)
}

// QuestionRepository loads question sets (usually a cache in front of the
// trivia provider).
type QuestionRepository interface {
	GetQuestions(ctx context.Context, query domain.QuestionQuery) ([]domain.Question, error)
}

// UserStore persists player profiles and their best scores.
type UserStore interface {
	SaveScore(ctx context.Context, username string, score int) error
	GetUser(ctx context.Context, username string) (domain.User, error)
	TopScores(ctx context.Context, offset, limit int) ([]domain.User, error)
}

// GameService contains the single-player game use cases.
type GameService struct {
	sessions  SessionRepository
	questions QuestionRepository
	users     UserStore
	rules     game.Rules
}

func NewGameService(sessions SessionRepository, questions QuestionRepository, users UserStore, rules game.Rules) *GameService {
	return &GameService{
		sessions:  sessions,
		questions: questions,
		users:     users,
		rules:     rules,
	}
}

// StartSession fetches a question set and begins a session for the player.
// All game signals go to the sink. Returns domain.ErrNoQuestions when the
// provider has nothing for the requested categories/language; no session is
// created in that case.
func (s *GameService) StartSession(ctx context.Context, id, username string, query domain.QuestionQuery, sink game.EventSink) error {
	questions, err := s.questions.GetQuestions(ctx, query)
	if err != nil {
		return err
	}
	if len(questions) == 0 {
		return domain.ErrNoQuestions
	}

	session, err := game.NewSession(questions, &persistingSink{
		EventSink: sink,
		users:     s.users,
		username:  username,
	}, s.rules)
	if err != nil {
		return err
	}

	if old, ok := s.sessions.Get(id); ok {
		old.Close()
	}
	s.sessions.Put(id, session)
	session.Start()
	return nil
}

// SubmitAnswer forwards the player's selection to their session. The session
// itself ignores late or duplicate submissions.
func (s *GameService) SubmitAnswer(id, option string) error {
	session, ok := s.sessions.Get(id)
	if !ok {
		return domain.ErrSessionNotFound
	}
	session.SubmitAnswer(option)
	return nil
}

// Snapshot returns the state of an active session.
func (s *GameService) Snapshot(id string) (game.Snapshot, error) {
	session, ok := s.sessions.Get(id)
	if !ok {
		return game.Snapshot{}, domain.ErrSessionNotFound
	}
	return session.Snapshot(), nil
}

// EndSession tears a session down and forgets it. Safe to call for unknown
// or already-ended sessions.
func (s *GameService) EndSession(id string) {
	session, ok := s.sessions.Get(id)
	if !ok {
		return
	}
	session.Close()
	s.sessions.Delete(id)
}

// TopScores exposes the persisted leaderboard.
func (s *GameService) TopScores(ctx context.Context, offset, limit int) ([]domain.User, error) {
	return s.users.TopScores(ctx, offset, limit)
}

// persistingSink writes the final score when the session ends, then forwards
// the signal. A store failure is logged, never surfaced: persistence must not
// block or fail the game.
type persistingSink struct {
	game.EventSink
	users    UserStore
	username string
}

func (p *persistingSink) SessionEnded(finalScore int) {
	if p.users != nil && p.username != "" {
		if err := p.users.SaveScore(context.Background(), p.username, finalScore); err != nil {
			log.Printf("save score for %s: %v", p.username, err)
		}
	}
	p.EventSink.SessionEnded(finalScore)
}
