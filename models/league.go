package models

// League is a date-bounded scoring window. EndTS is nil while the league is
// open; at most one league is open at a time.
type League struct {
	ID      int     `json:"id" db:"id"`
	Name    *string `json:"name,omitempty" db:"name"`
	StartTS int64   `json:"start_ts" db:"start_ts"`
	EndTS   *int64  `json:"end_ts,omitempty" db:"end_ts"`
}

func (l *League) IsOpen() bool {
	return l.EndTS == nil
}
