package swiss

import (
	"math"
	"testing"

	"github.com/Dosada05/event-companion/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeagueScoreFormula(t *testing.T) {
	expected := 100.0 * 0.5 * (1.0 - math.Exp(-0.3*4.0))
	assert.InDelta(t, expected, LeagueScore(0.5, 4), 1e-9)
	assert.Zero(t, LeagueScore(0, 10))
}

func TestLeagueScoreMonotonicInMatches(t *testing.T) {
	// Holding win rate fixed, a longer track record always scores higher,
	// converging towards 100 * winRate.
	prev := 0.0
	for matches := 1; matches <= 40; matches++ {
		score := LeagueScore(0.6, matches)
		assert.Greater(t, score, prev)
		assert.Less(t, score, 60.0)
		prev = score
	}
}

func TestGuestKeyNormalization(t *testing.T) {
	assert.Equal(t, GuestKey("Mara Jade"), GuestKey("  mara   JADE "))
	assert.NotEqual(t, GuestKey("Mara"), PlayerKey(42))
}

func TestAggregateLeagueMergesGuestsAcrossEvents(t *testing.T) {
	eventA := EventHistory{
		Identity: map[int]string{10: PlayerKey(1), 11: GuestKey("Mara")},
		Names:    map[string]string{PlayerKey(1): "Alice", GuestKey("Mara"): "Mara"},
		Matches:  []*models.Match{playedMatch(1, 10, 11, 2, 0)},
	}
	eventB := EventHistory{
		Identity: map[int]string{20: PlayerKey(1), 21: GuestKey("mara")},
		Names:    map[string]string{PlayerKey(1): "Alice", GuestKey("mara"): "Mara"},
		Matches:  []*models.Match{playedMatch(1, 21, 20, 2, 1)},
	}

	rows := AggregateLeague([]EventHistory{eventA, eventB})
	require.Len(t, rows, 2)

	byKey := map[string]LeagueRow{}
	for _, r := range rows {
		byKey[r.Key] = r
	}
	mara := byKey[GuestKey("Mara")]
	assert.Equal(t, 2, mara.Matches)
	assert.Equal(t, 1, mara.Wins)
	assert.Equal(t, 1, mara.Losses)
	assert.InDelta(t, 0.5, mara.WinRate, 1e-9)
}

func TestAggregateLeagueByeCountsAsWin(t *testing.T) {
	event := EventHistory{
		Identity: map[int]string{10: PlayerKey(1), 11: PlayerKey(2)},
		Names:    map[string]string{PlayerKey(1): "Alice", PlayerKey(2): "Bob"},
		Matches: []*models.Match{
			byeMatch(1, 10),
			playedMatch(1, 10, 11, 1, 1),
		},
	}

	rows := AggregateLeague([]EventHistory{event})
	require.Len(t, rows, 2)

	assert.Equal(t, "Alice", rows[0].Name)
	assert.Equal(t, 2, rows[0].Matches)
	assert.Equal(t, 1, rows[0].Wins)
	assert.Equal(t, 1, rows[0].Draws)
	assert.InDelta(t, 0.75, rows[0].WinRate, 1e-9)
}

func TestAggregateLeagueKeepsZeroMatchParticipants(t *testing.T) {
	event := EventHistory{
		Identity: map[int]string{10: PlayerKey(1), 11: PlayerKey(2), 12: PlayerKey(3)},
		Names: map[string]string{
			PlayerKey(1): "Alice", PlayerKey(2): "Bob", PlayerKey(3): "Carol",
		},
		Matches: []*models.Match{playedMatch(1, 10, 11, 2, 0)},
	}

	rows := AggregateLeague([]EventHistory{event})
	require.Len(t, rows, 3)

	var carol *LeagueRow
	for i := range rows {
		if rows[i].Name == "Carol" {
			carol = &rows[i]
		}
	}
	require.NotNil(t, carol)
	assert.Zero(t, carol.Matches)
	assert.Zero(t, carol.Score)
}

func TestAggregateLeagueSkipsUnmappedMatches(t *testing.T) {
	event := EventHistory{
		Identity: map[int]string{10: PlayerKey(1)},
		Names:    map[string]string{PlayerKey(1): "Alice"},
		Matches:  []*models.Match{playedMatch(1, 10, 99, 2, 0)},
	}

	rows := AggregateLeague([]EventHistory{event})
	require.Len(t, rows, 1)
	assert.Zero(t, rows[0].Matches)
}

func TestAggregateLeagueSortsByScoreThenWinRateThenName(t *testing.T) {
	event := EventHistory{
		Identity: map[int]string{10: PlayerKey(1), 11: PlayerKey(2), 12: PlayerKey(3), 13: PlayerKey(4)},
		Names: map[string]string{
			PlayerKey(1): "Alice", PlayerKey(2): "Bob",
			PlayerKey(3): "Carol", PlayerKey(4): "Dave",
		},
		Matches: []*models.Match{
			playedMatch(1, 10, 11, 2, 0),
			playedMatch(1, 12, 13, 2, 0),
			playedMatch(2, 10, 12, 2, 0),
		},
	}

	rows := AggregateLeague([]EventHistory{event})
	require.Len(t, rows, 4)
	// Alice: 2 wins in 2 matches. Carol: 1-1. Bob and Dave both 0-1 and tied
	// on score; alphabetical order breaks the tie.
	assert.Equal(t, "Alice", rows[0].Name)
	assert.Equal(t, "Carol", rows[1].Name)
	assert.Equal(t, "Bob", rows[2].Name)
	assert.Equal(t, "Dave", rows[3].Name)
}
