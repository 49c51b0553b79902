package models

// Match belongs to one event and round. Player1/Player2 reference
// event_players rows; Player2 is nil exactly when Bye is set. Scores are
// best-of-3 game counts in {0,1,2}; a BYE row is always recorded as 2-0.
type Match struct {
	ID      int  `json:"id" db:"id"`
	EventID int  `json:"event_id" db:"event_id"`
	Round   int  `json:"round" db:"round"`
	Player1 int  `json:"player1" db:"player1"`
	Player2 *int `json:"player2,omitempty" db:"player2"`
	Score1  int  `json:"score_p1" db:"score_p1"`
	Score2  int  `json:"score_p2" db:"score_p2"`
	Bye     bool `json:"bye" db:"bye"`
}
