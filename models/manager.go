package models

import "time"

// ManagerRole is the role claim carried in issued tokens. Anyone without a
// token browses as a guest: read-only access, no round or league mutations.
type ManagerRole string

const (
	RoleManager ManagerRole = "manager"
)

// Manager is an organizer account allowed to mutate events, rounds, players
// and leagues.
type Manager struct {
	ID           int       `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
