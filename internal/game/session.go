package game

import (
	"math/rand"
	"sync"
	"time"

	"github.com/Croissanton/Quiziosity/internal/domain"
)

// Phase is the lifecycle state of a session's current question.
type Phase int

const (
	// AwaitingAnswer means the timer is running and input is accepted.
	AwaitingAnswer Phase = iota
	// Locked means a verdict was recorded and advancement is scheduled.
	Locked
	// Ended is terminal.
	Ended
)

func (p Phase) String() string {
	switch p {
	case AwaitingAnswer:
		return "awaiting-answer"
	case Locked:
		return "locked"
	case Ended:
		return "ended"
	}
	return "unknown"
}

// Session drives a single player through an ordered question set: one
// countdown per question, at most one verdict per question, streak-based bonus
// time, and a settle delay between questions. All transitions are serialized
// by the session mutex; late timer callbacks self-detect invalidation through
// the phase and the current-timer identity, never through cancel timing.
type Session struct {
	mu    sync.Mutex
	rules Rules
	sink  EventSink
	now   func() time.Time
	rnd   *rand.Rand

	questions []domain.Question
	index     int
	phase     Phase
	options   []string
	tracker   tracker

	started  bool
	closed   bool
	timer    *Countdown
	total    time.Duration
	deadline time.Time
	advance  *time.Timer
}

// NewSession builds a session over a non-empty question set. The question
// slice is not copied; callers must not mutate it afterwards.
func NewSession(questions []domain.Question, sink EventSink, rules Rules) (*Session, error) {
	return NewSessionWithClock(questions, sink, rules, time.Now)
}

// NewSessionWithClock is test-only for deterministic remaining-time readings.
func NewSessionWithClock(questions []domain.Question, sink EventSink, rules Rules, now func() time.Time) (*Session, error) {
	if len(questions) == 0 {
		return nil, domain.ErrNoQuestions
	}
	if sink == nil {
		sink = NopSink{}
	}
	return &Session{
		rules:     rules,
		sink:      sink,
		now:       now,
		rnd:       rand.New(rand.NewSource(now().UnixNano())),
		questions: questions,
		tracker:   tracker{rules: rules},
	}, nil
}

// Start displays the first question and starts its timer. One-shot; calling
// it again, or after Close, does nothing.
func (s *Session) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started || s.closed {
		return
	}
	s.started = true
	s.beginQuestionLocked()
}

// SubmitAnswer records the player's selection for the current question. An
// empty selection counts as "no answer". Submissions outside the answering
// window (already answered, settling, ended) are silently ignored; that guard
// is what makes a user tap racing a timer expiry safe.
func (s *Session) SubmitAnswer(selected string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.phase != AwaitingAnswer {
		return
	}
	s.resolveLocked(selected)
}

// Close tears the session down, cancelling the running timer and any pending
// advancement. Safe to call repeatedly.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if s.timer != nil {
		s.timer.Cancel()
		s.timer = nil
	}
	if s.advance != nil {
		s.advance.Stop()
		s.advance = nil
	}
}

// Snapshot is a read-only view of the session for transports and tests.
type Snapshot struct {
	Phase        Phase
	Index        int
	Questions    int
	Score        int
	Streak       int
	QuestionTime time.Duration // countdown duration of the current question
}

// Snapshot returns the current session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Phase:        s.phase,
		Index:        s.index,
		Questions:    len(s.questions),
		Score:        s.tracker.score,
		Streak:       s.tracker.streak,
		QuestionTime: s.total,
	}
}

// beginQuestionLocked shows the question at s.index and starts its countdown.
// The countdown duration is the base time plus the bonus earned by the streak
// entering this question.
func (s *Session) beginQuestionLocked() {
	q := s.questions[s.index]
	s.options = ShuffleOptions(s.rnd, q)
	s.total = s.rules.QuestionTime + s.tracker.bonus()
	s.deadline = s.now().Add(s.total)
	s.phase = AwaitingAnswer
	s.advance = nil

	timer := NewCountdown(s.total, s.rules.TickInterval)
	s.timer = timer
	s.sink.QuestionDisplayed(s.index, q, s.options)
	timer.Start(
		func(remaining time.Duration) { s.handleTick(timer, remaining) },
		func() { s.handleExpiry(timer) },
	)
}

func (s *Session) handleTick(timer *Countdown, remaining time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.timer != timer || s.phase != AwaitingAnswer {
		return
	}
	s.sink.TimerTick(progressOf(remaining, s.total), remaining)
}

// handleExpiry treats timer expiry as "no answer". A stale expiry (submitted
// answer won the race, or the session was torn down) is suppressed here, which
// is what keeps a question from ever being scored twice.
func (s *Session) handleExpiry(timer *Countdown) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.timer != timer || s.phase != AwaitingAnswer {
		return
	}
	s.resolveLocked("")
}

// resolveLocked computes the single verdict for the current question, updates
// score and streak, and schedules advancement after the settle delay.
func (s *Session) resolveLocked(selected string) {
	if s.timer != nil {
		s.timer.Cancel()
		s.timer = nil
	}

	q := s.questions[s.index]
	correct := Evaluate(selected, q.CorrectAnswer)

	remaining := time.Duration(0)
	if correct {
		remaining = s.deadline.Sub(s.now())
	}
	awarded := s.tracker.apply(correct, progressOf(remaining, s.total))

	s.phase = Locked
	verdicts := make(map[string]bool, len(s.options))
	for _, option := range s.options {
		verdicts[option] = option == q.CorrectAnswer
	}
	s.sink.AnswerResolved(selected, verdicts)
	if awarded > 0 {
		s.sink.ScoreChanged(s.tracker.score)
	}

	s.advance = time.AfterFunc(s.rules.SettleDelay, s.advanceQuestion)
}

// advanceQuestion fires after the settle delay: next question, or end of the
// session once the set is exhausted.
func (s *Session) advanceQuestion() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.phase != Locked {
		return
	}
	if s.index+1 < len(s.questions) {
		s.index++
		s.beginQuestionLocked()
		return
	}
	s.phase = Ended
	s.sink.SessionEnded(s.tracker.score)
}
