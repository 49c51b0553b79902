package services

import (
	"context"
	"testing"

	"github.com/Dosada05/event-companion/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStandingsRanksByMatchPoints(t *testing.T) {
	eventRepo := newFakeEventRepo(&models.Event{ID: 1, Status: models.EventStatusActive, CurrentRound: 1})
	participantRepo := newFakeParticipantRepo()
	participantRepo.add(
		&models.EventParticipant{ID: 1, EventID: 1, PlayerID: intPtr(1), PlayerName: strPtr("Alice"), SeatingPos: 1},
		&models.EventParticipant{ID: 2, EventID: 1, PlayerID: intPtr(2), PlayerName: strPtr("Bob"), SeatingPos: 2},
		&models.EventParticipant{ID: 3, EventID: 1, GuestName: strPtr("Mara"), SeatingPos: 3},
	)
	matchRepo := newFakeMatchRepo(
		&models.Match{ID: 1, EventID: 1, Round: 1, Player1: 1, Player2: intPtr(2), Score1: 2, Score2: 0},
		&models.Match{ID: 2, EventID: 1, Round: 1, Player1: 3, Score1: 2, Bye: true},
	)

	service := NewStandingsService(eventRepo, participantRepo, matchRepo)

	standings, err := service.GetStandings(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, standings, 3)

	assert.Equal(t, 3, standings[0].MatchPoints)
	assert.Equal(t, 3, standings[1].MatchPoints)
	assert.Equal(t, "Bob", standings[2].Name)
	assert.Equal(t, 1, standings[0].Rank)
	assert.Equal(t, 3, standings[2].Rank)
}

func TestGetStandingsUnknownEvent(t *testing.T) {
	service := NewStandingsService(newFakeEventRepo(), newFakeParticipantRepo(), newFakeMatchRepo())

	_, err := service.GetStandings(context.Background(), 99)
	assert.ErrorIs(t, err, ErrEventNotFound)
}
