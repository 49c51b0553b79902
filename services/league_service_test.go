package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/Dosada05/event-companion/models"
	"github.com/Dosada05/event-companion/swiss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func closedEvent(id int, roundStartTS int64) *models.Event {
	return &models.Event{
		ID:           id,
		Name:         "Weekly",
		Status:       models.EventStatusClosed,
		CurrentRound: 3,
		RoundStartTS: int64Ptr(roundStartTS),
	}
}

func TestLeagueGetTableMergesIdentitiesAcrossEvents(t *testing.T) {
	leagueRepo := newFakeLeagueRepo(&models.League{ID: 1, StartTS: 100})
	eventRepo := newFakeEventRepo(
		closedEvent(10, 150),
		closedEvent(11, 50), // before the window
		closedEvent(13, 200),
	)
	// Event 12 is still active and must be ignored even inside the window.
	eventRepo.events[12] = &models.Event{ID: 12, Status: models.EventStatusActive, RoundStartTS: int64Ptr(160)}

	participantRepo := newFakeParticipantRepo()
	participantRepo.add(
		&models.EventParticipant{ID: 1, EventID: 10, PlayerID: intPtr(1), PlayerName: strPtr("Alice"), SeatingPos: 1},
		&models.EventParticipant{ID: 2, EventID: 10, GuestName: strPtr("Mara"), SeatingPos: 2},
		&models.EventParticipant{ID: 1, EventID: 11, PlayerID: intPtr(1), PlayerName: strPtr("Alice"), SeatingPos: 1},
		&models.EventParticipant{ID: 2, EventID: 11, GuestName: strPtr("Mara"), SeatingPos: 2},
		&models.EventParticipant{ID: 1, EventID: 13, GuestName: strPtr("  mara  "), SeatingPos: 1},
		&models.EventParticipant{ID: 2, EventID: 13, PlayerID: intPtr(1), PlayerName: strPtr("Alice"), SeatingPos: 2},
	)
	matchRepo := newFakeMatchRepo(
		&models.Match{ID: 1, EventID: 10, Round: 1, Player1: 1, Player2: intPtr(2), Score1: 2, Score2: 0},
		&models.Match{ID: 2, EventID: 11, Round: 1, Player1: 1, Player2: intPtr(2), Score1: 2, Score2: 0},
		&models.Match{ID: 3, EventID: 13, Round: 1, Player1: 1, Player2: intPtr(2), Score1: 2, Score2: 1},
	)

	service := NewLeagueService(leagueRepo, eventRepo, participantRepo, matchRepo, nil, discardLogger())

	league, rows, err := service.GetTable(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, league.ID)
	require.Len(t, rows, 2)

	byKey := map[string]swiss.LeagueRow{}
	for _, row := range rows {
		byKey[row.Key] = row
	}

	// The guest rows from both in-window events collapse to one identity; the
	// out-of-window event 11 contributes nothing.
	mara := byKey[swiss.GuestKey("Mara")]
	assert.Equal(t, 2, mara.Matches)
	assert.Equal(t, 1, mara.Wins)
	assert.Equal(t, 1, mara.Losses)

	alice := byKey[swiss.PlayerKey(1)]
	assert.Equal(t, "Alice", alice.Name)
	assert.Equal(t, 2, alice.Matches)
	assert.Equal(t, 1, alice.Wins)
}

func TestLeagueGetTableBoundedWindow(t *testing.T) {
	endTS := int64(300)
	leagueRepo := newFakeLeagueRepo(&models.League{ID: 1, StartTS: 100, EndTS: &endTS})
	eventRepo := newFakeEventRepo(
		closedEvent(10, 150),
		closedEvent(11, 300), // exactly at the closing second, still counts
		closedEvent(12, 301), // past the end of the window
	)
	participantRepo := newFakeParticipantRepo()
	participantRepo.add(
		&models.EventParticipant{ID: 1, EventID: 10, PlayerID: intPtr(1), PlayerName: strPtr("Alice"), SeatingPos: 1},
		&models.EventParticipant{ID: 2, EventID: 10, PlayerID: intPtr(2), PlayerName: strPtr("Bob"), SeatingPos: 2},
		&models.EventParticipant{ID: 1, EventID: 11, PlayerID: intPtr(1), PlayerName: strPtr("Alice"), SeatingPos: 1},
		&models.EventParticipant{ID: 2, EventID: 11, PlayerID: intPtr(2), PlayerName: strPtr("Bob"), SeatingPos: 2},
		&models.EventParticipant{ID: 1, EventID: 12, PlayerID: intPtr(3), PlayerName: strPtr("Carol"), SeatingPos: 1},
		&models.EventParticipant{ID: 2, EventID: 12, PlayerID: intPtr(4), PlayerName: strPtr("Dave"), SeatingPos: 2},
	)
	matchRepo := newFakeMatchRepo(
		&models.Match{ID: 1, EventID: 10, Round: 1, Player1: 1, Player2: intPtr(2), Score1: 2, Score2: 0},
		&models.Match{ID: 2, EventID: 11, Round: 1, Player1: 1, Player2: intPtr(2), Score1: 0, Score2: 2},
		&models.Match{ID: 3, EventID: 12, Round: 1, Player1: 1, Player2: intPtr(2), Score1: 2, Score2: 0},
	)

	service := NewLeagueService(leagueRepo, eventRepo, participantRepo, matchRepo, nil, discardLogger())

	_, rows, err := service.GetTable(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byKey := map[string]swiss.LeagueRow{}
	for _, row := range rows {
		byKey[row.Key] = row
	}
	// Both the mid-window and boundary events count; event 12 contributes
	// nothing, so Alice and Bob sit at one win each from two matches.
	assert.Equal(t, 2, byKey[swiss.PlayerKey(1)].Matches)
	assert.Equal(t, 1, byKey[swiss.PlayerKey(1)].Wins)
	assert.Equal(t, 2, byKey[swiss.PlayerKey(2)].Matches)
	assert.Equal(t, 1, byKey[swiss.PlayerKey(2)].Wins)
}

func TestLeagueGetCurrentTableNoOpenLeague(t *testing.T) {
	endTS := int64(300)
	leagueRepo := newFakeLeagueRepo(&models.League{ID: 1, StartTS: 100, EndTS: &endTS})
	service := NewLeagueService(leagueRepo, newFakeEventRepo(), newFakeParticipantRepo(), newFakeMatchRepo(), nil, discardLogger())

	_, _, err := service.GetCurrentTable(context.Background())
	assert.ErrorIs(t, err, ErrLeagueNotFound)
}

func TestLeagueOpenRefusesSecondOpenLeague(t *testing.T) {
	leagueRepo := newFakeLeagueRepo(&models.League{ID: 1, StartTS: 100})
	service := NewLeagueService(leagueRepo, newFakeEventRepo(), newFakeParticipantRepo(), newFakeMatchRepo(), nil, discardLogger())

	_, err := service.Open(context.Background(), strPtr("Season 2"))
	assert.ErrorIs(t, err, ErrLeagueAlreadyOpen)
}
