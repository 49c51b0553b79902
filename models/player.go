package models

import "time"

// Player is a persistent identity. Full names are unique case-insensitively;
// the nickname is derived and rebalanced to stay unique among current players.
type Player struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Nickname  *string   `json:"nickname,omitempty" db:"nickname"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
