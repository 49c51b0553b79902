package models

// nicknameDisplayThreshold is the full-name length at which standings switch
// to the short nickname so tie-break columns stay readable.
const nicknameDisplayThreshold = 20

// EventParticipant links either a registered player or a free-text guest to
// one event. Exactly one of PlayerID / GuestName is set.
type EventParticipant struct {
	ID         int     `json:"id" db:"id"`
	EventID    int     `json:"event_id" db:"event_id"`
	PlayerID   *int    `json:"player_id,omitempty" db:"player_id"`
	GuestName  *string `json:"guest_name,omitempty" db:"guest_name"`
	SeatingPos int     `json:"seating_pos" db:"seating_pos"`

	// Joined player columns, populated by the repository for registered players.
	PlayerName     *string `json:"player_name,omitempty" db:"-"`
	PlayerNickname *string `json:"player_nickname,omitempty" db:"-"`
}

func (p *EventParticipant) IsGuest() bool {
	return p.PlayerID == nil
}

// DisplayName resolves the rendered name: guest name for guests, the player's
// full name otherwise, substituted by the nickname once the full name reaches
// the display threshold.
func (p *EventParticipant) DisplayName() string {
	if p.GuestName != nil && *p.GuestName != "" {
		return *p.GuestName
	}
	if p.PlayerName == nil {
		return "Unknown"
	}
	name := *p.PlayerName
	if len(name) >= nicknameDisplayThreshold && p.PlayerNickname != nil && *p.PlayerNickname != "" {
		return *p.PlayerNickname
	}
	return name
}
