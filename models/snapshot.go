package models

import "time"

// Snapshot is a full export of the store, uploaded as one JSON document to
// remote object storage so another install can be rebuilt from it.
type Snapshot struct {
	TakenAt      time.Time          `json:"taken_at"`
	Players      []Player           `json:"players"`
	Events       []Event            `json:"events"`
	Participants []EventParticipant `json:"event_players"`
	Matches      []Match            `json:"matches"`
	Leagues      []League           `json:"leagues"`
}
