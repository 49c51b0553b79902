package services

import (
	"context"
	"testing"

	"github.com/Dosada05/event-companion/models"
	"github.com/Dosada05/event-companion/swiss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRoundServiceForScores(eventRepo *fakeEventRepo, matchRepo *fakeMatchRepo) RoundService {
	return NewRoundService(nil, eventRepo, newFakeParticipantRepo(), matchRepo, nil, discardLogger(), nil)
}

func TestSetMatchScoreUpdatesCurrentRound(t *testing.T) {
	eventRepo := newFakeEventRepo(&models.Event{ID: 1, Status: models.EventStatusActive, CurrentRound: 2})
	matchRepo := newFakeMatchRepo(
		&models.Match{ID: 5, EventID: 1, Round: 2, Player1: 1, Player2: intPtr(2)},
	)
	service := newRoundServiceForScores(eventRepo, matchRepo)

	match, err := service.SetMatchScore(context.Background(), 5, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, match.Score1)
	assert.Equal(t, 1, match.Score2)

	stored, err := matchRepo.GetByID(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Score1)
}

func TestSetMatchScoreRejectsDoubleMax(t *testing.T) {
	service := newRoundServiceForScores(newFakeEventRepo(), newFakeMatchRepo())

	_, err := service.SetMatchScore(context.Background(), 1, 2, 2)
	assert.ErrorIs(t, err, ErrScoreBothMaxed)

	_, err = service.SetMatchScore(context.Background(), 1, 3, 0)
	assert.ErrorIs(t, err, ErrScoreOutOfRange)

	_, err = service.SetMatchScore(context.Background(), 1, -1, 0)
	assert.ErrorIs(t, err, ErrScoreOutOfRange)
}

func TestSetMatchScoreRejectsByeEdit(t *testing.T) {
	eventRepo := newFakeEventRepo(&models.Event{ID: 1, Status: models.EventStatusActive, CurrentRound: 1})
	matchRepo := newFakeMatchRepo(
		&models.Match{ID: 5, EventID: 1, Round: 1, Player1: 1, Score1: 2, Bye: true},
	)
	service := newRoundServiceForScores(eventRepo, matchRepo)

	_, err := service.SetMatchScore(context.Background(), 5, 1, 1)
	assert.ErrorIs(t, err, ErrByeScoreImmutable)
}

func TestSetMatchScoreRejectsEarlierRound(t *testing.T) {
	eventRepo := newFakeEventRepo(&models.Event{ID: 1, Status: models.EventStatusActive, CurrentRound: 3})
	matchRepo := newFakeMatchRepo(
		&models.Match{ID: 5, EventID: 1, Round: 2, Player1: 1, Player2: intPtr(2)},
	)
	service := newRoundServiceForScores(eventRepo, matchRepo)

	_, err := service.SetMatchScore(context.Background(), 5, 2, 0)
	assert.ErrorIs(t, err, ErrMatchNotInCurrent)
}

func TestSetMatchScoreRejectsClosedEvent(t *testing.T) {
	eventRepo := newFakeEventRepo(&models.Event{ID: 1, Status: models.EventStatusClosed, CurrentRound: 3})
	matchRepo := newFakeMatchRepo(
		&models.Match{ID: 5, EventID: 1, Round: 3, Player1: 1, Player2: intPtr(2)},
	)
	service := newRoundServiceForScores(eventRepo, matchRepo)

	_, err := service.SetMatchScore(context.Background(), 5, 2, 0)
	assert.ErrorIs(t, err, ErrEventNotActive)
}

func TestRequireRoundScored(t *testing.T) {
	matches := []*models.Match{
		{Round: 1, Player1: 1, Player2: intPtr(2), Score1: 2, Score2: 1},
		{Round: 2, Player1: 1, Player2: intPtr(2)},
		{Round: 2, Player1: 3, Score1: 2, Bye: true},
	}

	// Round 1 is fully reported, round 2 still has an open table.
	assert.NoError(t, requireRoundScored(matches, 1))
	assert.ErrorIs(t, requireRoundScored(matches, 2), ErrRoundNotScored)

	matches[1].Score1 = 1
	matches[1].Score2 = 1
	assert.NoError(t, requireRoundScored(matches, 2))
}

func TestMapPairingError(t *testing.T) {
	assert.ErrorIs(t, mapPairingError(swiss.ErrNotEnoughParticipants), ErrParticipantListTooSmall)
	assert.ErrorIs(t, mapPairingError(swiss.ErrPoolTooLarge), ErrValidationFailed)
	assert.ErrorIs(t, mapPairingError(swiss.ErrUnknownParticipant), ErrValidationFailed)
}

func TestRemainingSecondsRunningRound(t *testing.T) {
	startTS := int64(1)
	eventRepo := newFakeEventRepo(&models.Event{
		ID: 1, Status: models.EventStatusActive, CurrentRound: 1,
		RoundSeconds: 3000, RoundStartTS: &startTS,
	})
	service := newRoundServiceForScores(eventRepo, newFakeMatchRepo())

	_, running, err := service.RemainingSeconds(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, running)

	_, _, err = service.RemainingSeconds(context.Background(), 99)
	assert.ErrorIs(t, err, ErrEventNotFound)
}
