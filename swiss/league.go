package swiss

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/Dosada05/event-companion/models"
)

// ConfidenceK steers how fast the league score converges to the raw win rate
// as a participant accumulates matches. Existing scoreboards were computed
// with 0.3; change it only as a deliberate policy decision.
const ConfidenceK = 0.3

// LeagueRow is one scoreboard line aggregated across all qualifying events.
type LeagueRow struct {
	Key     string  `json:"key"`
	Name    string  `json:"name"`
	Matches int     `json:"matches"`
	Wins    int     `json:"wins"`
	Losses  int     `json:"losses"`
	Draws   int     `json:"draws"`
	WinRate float64 `json:"winrate"`
	Score   float64 `json:"score"`
}

// EventHistory is one closed event prepared for league aggregation:
// event_players ids resolved to cross-event identity keys plus the raw match
// rows. Matches whose participants are missing from Identity are skipped.
type EventHistory struct {
	Identity map[int]string
	Names    map[string]string
	Matches  []*models.Match
}

// PlayerKey returns the league identity key for a registered player.
func PlayerKey(playerID int) string {
	return strconv.Itoa(playerID)
}

// GuestKey returns the league identity key for a guest name. Distinct guests
// sharing a name merge into one identity on purpose, so a regular guest keeps
// a track record across events.
func GuestKey(name string) string {
	return "guest:" + strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// LeagueScore is the confidence-weighted composite: the raw win rate scaled
// by an asymptotic term that suppresses small sample sizes and converges to
// 100*winRate as matches grows.
func LeagueScore(winRate float64, matches int) float64 {
	return 100.0 * winRate * (1.0 - math.Exp(-ConfidenceK*float64(matches)))
}

// AggregateLeague folds every event's matches into per-identity records and
// scores them. A BYE counts as one match and one win with no opponent.
// Participants registered for a qualifying event keep a row even with zero
// matches played.
func AggregateLeague(events []EventHistory) []LeagueRow {
	rows := make(map[string]*LeagueRow)
	ensure := func(key, name string) *LeagueRow {
		if row, ok := rows[key]; ok {
			return row
		}
		row := &LeagueRow{Key: key, Name: name}
		rows[key] = row
		return row
	}

	for _, ev := range events {
		for _, key := range ev.Identity {
			ensure(key, ev.Names[key])
		}
		for _, m := range ev.Matches {
			if m.Bye {
				key, ok := ev.Identity[m.Player1]
				if !ok {
					continue
				}
				row := ensure(key, ev.Names[key])
				row.Matches++
				row.Wins++
				continue
			}
			if m.Player2 == nil {
				continue
			}
			key1, ok1 := ev.Identity[m.Player1]
			key2, ok2 := ev.Identity[*m.Player2]
			if !ok1 || !ok2 {
				continue
			}
			r1 := ensure(key1, ev.Names[key1])
			r2 := ensure(key2, ev.Names[key2])
			r1.Matches++
			r2.Matches++
			switch {
			case m.Score1 > m.Score2:
				r1.Wins++
				r2.Losses++
			case m.Score2 > m.Score1:
				r2.Wins++
				r1.Losses++
			default:
				r1.Draws++
				r2.Draws++
			}
		}
	}

	out := make([]LeagueRow, 0, len(rows))
	for _, row := range rows {
		if row.Matches > 0 {
			row.WinRate = (float64(row.Wins) + 0.5*float64(row.Draws)) / float64(row.Matches)
		}
		row.Score = LeagueScore(row.WinRate, row.Matches)
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.WinRate != b.WinRate {
			return a.WinRate > b.WinRate
		}
		return a.Name < b.Name
	})
	return out
}
