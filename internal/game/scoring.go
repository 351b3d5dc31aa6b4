package game

import "time"

// ProgressScale is the canonical remaining-time unit: a question starts at
// 1000 and counts down to 0 at expiry. Scoring and the tick signal share it;
// seconds are a transport/display concern only.
const ProgressScale = 1000

// progressOf converts remaining time into the 0..1000 progress unit.
func progressOf(remaining, total time.Duration) int {
	if total <= 0 {
		return 0
	}
	p := int(remaining * ProgressScale / total)
	if p < 0 {
		p = 0
	}
	if p > ProgressScale {
		p = ProgressScale
	}
	return p
}

// tracker accumulates the score and consecutive-correct streak of one session.
type tracker struct {
	rules  Rules
	score  int
	streak int
}

// apply records a verdict and returns the points awarded (zero unless
// correct). An incorrect or timed-out answer resets the streak and never
// touches the score.
func (t *tracker) apply(correct bool, progressLeft int) int {
	if !correct {
		t.streak = 0
		return 0
	}
	delta := t.rules.BaseScore + progressLeft/10
	t.score += delta
	t.streak++
	return delta
}

// bonus is the extra countdown time the next question earns from the streak
// accumulated so far. It always applies prospectively: the question that
// extends the streak never benefits from its own answer.
func (t *tracker) bonus() time.Duration {
	return time.Duration(t.streak) * t.rules.StreakBonus
}
