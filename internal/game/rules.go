package game

import "time"

// Rules holds the tunable constants of a quiz round.
type Rules struct {
	QuestionTime time.Duration // base countdown per question
	TickInterval time.Duration // cadence of timer progress ticks
	SettleDelay  time.Duration // pause after a verdict before the next question
	BaseScore    int           // flat points for any correct answer
	StreakBonus  time.Duration // extra countdown time per consecutive correct answer
}

// DefaultRules returns the production defaults.
func DefaultRules() Rules {
	return Rules{
		QuestionTime: 10 * time.Second,
		TickInterval: 100 * time.Millisecond,
		SettleDelay:  1500 * time.Millisecond,
		BaseScore:    10,
		StreakBonus:  2 * time.Second,
	}
}
