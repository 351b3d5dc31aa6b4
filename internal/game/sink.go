package game

import (
	"time"

	"github.com/Croissanton/Quiziosity/internal/domain"
)

// EventSink receives presentation signals from a session. Dispatch is
// fire-and-forget from the session's point of view: implementations must not
// block, and a failing sink must never stall a state transition.
type EventSink interface {
	// QuestionDisplayed fires when a question is shown, with its shuffled options.
	QuestionDisplayed(index int, question domain.Question, options []string)
	// TimerTick reports countdown progress on the 0..1000 scale.
	TimerTick(progress int, remaining time.Duration)
	// AnswerResolved fires once per question with the per-option verdicts.
	// selected is empty when the question timed out.
	AnswerResolved(selected string, verdicts map[string]bool)
	// ScoreChanged reports the new total after a correct answer.
	ScoreChanged(score int)
	// SessionEnded fires once, after the last question resolves and settles.
	SessionEnded(finalScore int)
}

// NopSink discards all signals.
type NopSink struct{}

func (NopSink) QuestionDisplayed(int, domain.Question, []string) {}
func (NopSink) TimerTick(int, time.Duration)                     {}
func (NopSink) AnswerResolved(string, map[string]bool)           {}
func (NopSink) ScoreChanged(int)                                 {}
func (NopSink) SessionEnded(int)                                 {}
