package swiss

import (
	"errors"
	"fmt"
)

// Engine errors. Unknown participant references are treated as data
// corruption: failing loudly beats silently dropping someone from standings.
var (
	ErrNotEnoughParticipants = errors.New("swiss: at least 2 participants required")
	ErrUnknownParticipant    = errors.New("swiss: match references a participant not registered for the event")
	ErrMalformedMatch        = errors.New("swiss: non-bye match is missing its second participant")
	ErrPoolTooLarge          = errors.New("swiss: pairing pool exceeds 64 participants")
	ErrNoCompletePairing     = errors.New("swiss: backtracking produced no complete pairing")
)

// Pairing is one table assignment for a round: two event_players ids, or a
// single participant with Bye set and Player2 nil. Pairings are a plan only;
// the caller persists them as one batch.
type Pairing struct {
	Player1 int  `json:"player1"`
	Player2 *int `json:"player2,omitempty"`
	Bye     bool `json:"bye"`
}

func pairOf(p1, p2 int) Pairing {
	opp := p2
	return Pairing{Player1: p1, Player2: &opp}
}

func byeOf(p int) Pairing {
	return Pairing{Player1: p, Bye: true}
}

// pairKey identifies an unordered pair of participants.
type pairKey [2]int

func keyFor(a, b int) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{a, b}
}

func unknownParticipant(id int) error {
	return fmt.Errorf("%w: event_players id %d", ErrUnknownParticipant, id)
}
