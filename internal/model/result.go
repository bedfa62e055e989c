package model

import (
	"fmt"
	"time"
)

// DateLayout names daily game logs
const DateLayout = "2006-01-02"

// GameResult is one scored quiz submission
type GameResult struct {
	SessionID     string `json:"sessionId" bson:"sessionId"`
	CorrectCount  int    `json:"correctCount" bson:"correctCount"`
	TotalAnswered int    `json:"totalAnswered" bson:"totalAnswered"`
	Timestamp     string `json:"timestamp" bson:"timestamp"` // RFC 3339, UTC
}

// NewGameResult stamps a result with the given time in UTC
func NewGameResult(sessionID string, correct, total int, at time.Time) *GameResult {
	return &GameResult{
		SessionID:     sessionID,
		CorrectCount:  correct,
		TotalAnswered: total,
		Timestamp:     at.UTC().Format(time.RFC3339Nano),
	}
}

// Date returns the UTC date portion of the timestamp, e.g. "2024-05-01"
func (r *GameResult) Date() (string, error) {
	t, err := time.Parse(time.RFC3339Nano, r.Timestamp)
	if err != nil {
		return "", fmt.Errorf("invalid result timestamp %q: %w", r.Timestamp, err)
	}
	return t.UTC().Format(DateLayout), nil
}
