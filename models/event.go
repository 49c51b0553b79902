package models

import "time"

// EventStatus представляет статусы события, соответствующие ENUM в БД.
type EventStatus string

const (
	EventStatusActive EventStatus = "active"
	EventStatusClosed EventStatus = "closed"
)

// Event is a single tournament instance. CurrentRound is 0 until round 1
// begins; RoundStartTS is the epoch second the current round started, used to
// resume the round timer across restarts.
type Event struct {
	ID           int         `json:"id" db:"id"`
	Name         string      `json:"name" db:"name"`
	Type         string      `json:"type" db:"type"`
	Rounds       int         `json:"rounds" db:"rounds"`
	RoundSeconds int         `json:"round_seconds" db:"round_time"`
	Status       EventStatus `json:"status" db:"status"`
	CurrentRound int         `json:"current_round" db:"current_round"`
	RoundStartTS *int64      `json:"round_start_ts,omitempty" db:"round_start_ts"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
}

// RemainingSeconds reports how much of the round time budget is left at now.
// Negative values mean the round ran over.
func (e *Event) RemainingSeconds(now time.Time) (int64, bool) {
	if e.CurrentRound <= 0 || e.RoundStartTS == nil {
		return 0, false
	}
	return int64(e.RoundSeconds) - (now.Unix() - *e.RoundStartTS), true
}
