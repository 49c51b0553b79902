package swiss

import (
	"math"
	"sort"

	"github.com/Dosada05/event-companion/models"
)

// gameWinFloor is the standard Swiss floor applied to game-win percentages
// and to every opponent value averaged into OMW%/OGW%.
const gameWinFloor = 0.33

// Standing is one row of an event's standings.
//
// MatchWinPct is (wins + 0.5*draws) / matches. GameWinPct is game wins over
// games played, floored at 0.33. OppMatchWinPct and OppGameWinPct average the
// per-opponent values after flooring each one; a participant with no opponents
// (only BYEs, or no matches at all) keeps 0 there. All four are rounded to
// 4 decimal digits.
type Standing struct {
	ParticipantID int    `json:"participant_id"`
	Name          string `json:"name"`
	MatchPoints   int    `json:"match_points"`
	Wins          int    `json:"wins"`
	Losses        int    `json:"losses"`
	Draws         int    `json:"draws"`
	Matches       int    `json:"matches"`
	GameWins      int    `json:"game_wins"`
	GameLosses    int    `json:"game_losses"`

	MatchWinPct    float64 `json:"mwp"`
	OppMatchWinPct float64 `json:"omwp"`
	GameWinPct     float64 `json:"gwp"`
	OppGameWinPct  float64 `json:"ogwp"`

	Rank int `json:"rank"`
}

type standingAccum struct {
	Standing
	opponents []int
}

// ComputeStandings computes the full standings for one event from its match
// history. A BYE credits a 2-0 win (3 match points) but records no opponent.
// Equal game scores count as a draw for both sides. The result is sorted by
// match points, OMW%, GW%, OGW%, then name ascending, and is fully
// deterministic for a fixed input.
func ComputeStandings(participants []*models.EventParticipant, matches []*models.Match) ([]Standing, error) {
	if len(participants) == 0 {
		return []Standing{}, nil
	}

	accums := make(map[int]*standingAccum, len(participants))
	for _, p := range participants {
		accums[p.ID] = &standingAccum{Standing: Standing{
			ParticipantID: p.ID,
			Name:          p.DisplayName(),
		}}
	}

	for _, m := range matches {
		if m.Bye {
			st, ok := accums[m.Player1]
			if !ok {
				return nil, unknownParticipant(m.Player1)
			}
			st.Wins++
			st.MatchPoints += 3
			st.Matches++
			st.GameWins += 2
			continue
		}
		if m.Player2 == nil {
			return nil, ErrMalformedMatch
		}
		p1, ok := accums[m.Player1]
		if !ok {
			return nil, unknownParticipant(m.Player1)
		}
		p2, ok := accums[*m.Player2]
		if !ok {
			return nil, unknownParticipant(*m.Player2)
		}

		p1.opponents = append(p1.opponents, *m.Player2)
		p2.opponents = append(p2.opponents, m.Player1)

		p1.GameWins += m.Score1
		p1.GameLosses += m.Score2
		p2.GameWins += m.Score2
		p2.GameLosses += m.Score1

		switch {
		case m.Score1 > m.Score2:
			p1.Wins++
			p1.MatchPoints += 3
			p2.Losses++
		case m.Score2 > m.Score1:
			p2.Wins++
			p2.MatchPoints += 3
			p1.Losses++
		default:
			// Equal scores are a draw, including 0-0 and the disallowed 2-2.
			p1.Draws++
			p2.Draws++
			p1.MatchPoints++
			p2.MatchPoints++
		}
		p1.Matches++
		p2.Matches++
	}

	for _, st := range accums {
		st.MatchWinPct = round4(pct(float64(st.Wins)+0.5*float64(st.Draws), st.Matches))
		st.GameWinPct = round4(floored(pct(float64(st.GameWins), st.GameWins+st.GameLosses)))
	}

	for _, st := range accums {
		if len(st.opponents) == 0 {
			continue
		}
		var omw, ogw float64
		for _, opp := range st.opponents {
			omw += floored(accums[opp].MatchWinPct)
			ogw += floored(accums[opp].GameWinPct)
		}
		n := float64(len(st.opponents))
		st.OppMatchWinPct = round4(omw / n)
		st.OppGameWinPct = round4(ogw / n)
	}

	out := make([]Standing, 0, len(participants))
	for _, p := range participants {
		out = append(out, accums[p.ID].Standing)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.MatchPoints != b.MatchPoints {
			return a.MatchPoints > b.MatchPoints
		}
		if a.OppMatchWinPct != b.OppMatchWinPct {
			return a.OppMatchWinPct > b.OppMatchWinPct
		}
		if a.GameWinPct != b.GameWinPct {
			return a.GameWinPct > b.GameWinPct
		}
		if a.OppGameWinPct != b.OppGameWinPct {
			return a.OppGameWinPct > b.OppGameWinPct
		}
		return a.Name < b.Name
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out, nil
}

func pct(numerator float64, denominator int) float64 {
	if denominator <= 0 {
		return 0
	}
	return numerator / float64(denominator)
}

func floored(v float64) float64 {
	return math.Max(v, gameWinFloor)
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
