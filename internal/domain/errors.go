package domain

import "errors"

var (
	// ErrNoQuestions is returned when the provider yields an empty question set.
	ErrNoQuestions = errors.New("no questions available")
	// ErrSessionNotFound is returned when acting on an unknown game session.
	ErrSessionNotFound = errors.New("game session not found")
	// ErrUserNotFound indicates the profile store has no record for a username.
	ErrUserNotFound = errors.New("user not found")
)
