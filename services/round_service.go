package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/Dosada05/event-companion/models"
	"github.com/Dosada05/event-companion/repositories"
	"github.com/Dosada05/event-companion/swiss"
)

type RoundService interface {
	// StartRoundOne seats round 1 from the stored seating order and starts the
	// round timer. An odd head count hands a random participant the BYE.
	StartRoundOne(ctx context.Context, eventID int) ([]*models.Match, error)
	// NextRound pairs the following round from standings, avoiding rematches
	// where any complete rematch-free pairing exists.
	NextRound(ctx context.Context, eventID int) ([]*models.Match, error)
	SetMatchScore(ctx context.Context, matchID, score1, score2 int) (*models.Match, error)
	// CloseEvent finalizes the event. With abortCurrentRound the in-progress
	// round's matches are discarded as if the round never started.
	CloseEvent(ctx context.Context, eventID int, abortCurrentRound bool) (*models.Event, error)
	RemainingSeconds(ctx context.Context, eventID int) (int64, bool, error)
}

type roundService struct {
	db              *sql.DB
	eventRepo       repositories.EventRepository
	participantRepo repositories.ParticipantRepository
	matchRepo       repositories.MatchRepository
	broadcaster     EventBroadcaster
	logger          *slog.Logger

	rngMu sync.Mutex
	rng   *rand.Rand
}

func NewRoundService(
	db *sql.DB,
	eventRepo repositories.EventRepository,
	participantRepo repositories.ParticipantRepository,
	matchRepo repositories.MatchRepository,
	broadcaster EventBroadcaster,
	logger *slog.Logger,
	rng *rand.Rand,
) RoundService {
	return &roundService{
		db:              db,
		eventRepo:       eventRepo,
		participantRepo: participantRepo,
		matchRepo:       matchRepo,
		broadcaster:     broadcaster,
		logger:          logger,
		rng:             rng,
	}
}

func (s *roundService) StartRoundOne(ctx context.Context, eventID int) ([]*models.Match, error) {
	event, err := s.activeEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.CurrentRound != 0 {
		return nil, ErrRoundAlreadyStarted
	}

	participants, err := s.participantRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants for event %d: %w", eventID, err)
	}

	s.rngMu.Lock()
	pairings, err := swiss.GenerateRoundOne(participants, s.rng)
	s.rngMu.Unlock()
	if err != nil {
		return nil, mapPairingError(err)
	}

	return s.persistRound(ctx, event, 1, pairings)
}

func (s *roundService) NextRound(ctx context.Context, eventID int) ([]*models.Match, error) {
	event, err := s.activeEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.CurrentRound == 0 {
		// Round 1 has its own entry point with the seating-based split.
		return nil, fmt.Errorf("%w: start round one first", ErrValidationFailed)
	}
	if event.CurrentRound >= event.Rounds {
		return nil, ErrAllRoundsPlayed
	}

	participants, err := s.participantRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants for event %d: %w", eventID, err)
	}
	matches, err := s.matchRepo.ListByEvent(ctx, eventID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for event %d: %w", eventID, err)
	}
	if err := requireRoundScored(matches, event.CurrentRound); err != nil {
		return nil, err
	}

	pairings, err := swiss.ComputeNextRound(participants, matches)
	if err != nil {
		return nil, mapPairingError(err)
	}

	return s.persistRound(ctx, event, event.CurrentRound+1, pairings)
}

func (s *roundService) SetMatchScore(ctx context.Context, matchID, score1, score2 int) (*models.Match, error) {
	if err := validateScores(score1, score2); err != nil {
		return nil, err
	}

	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to get match %d: %w", matchID, err)
	}
	if match.Bye {
		return nil, ErrByeScoreImmutable
	}

	event, err := s.activeEvent(ctx, match.EventID)
	if err != nil {
		return nil, err
	}
	if match.Round != event.CurrentRound {
		// Earlier rounds are corrected through reopen, never edited in place.
		return nil, ErrMatchNotInCurrent
	}

	if err := s.matchRepo.UpdateScores(ctx, nil, matchID, score1, score2); err != nil {
		return nil, fmt.Errorf("failed to update scores for match %d: %w", matchID, err)
	}
	match.Score1 = score1
	match.Score2 = score2

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToEvent(match.EventID, map[string]interface{}{
			"type":  "SCORE_UPDATED",
			"match": match,
		})
		// Standings are derived from scores; nudge viewers to refetch.
		s.broadcaster.BroadcastToEvent(match.EventID, map[string]interface{}{
			"type": "STANDINGS_UPDATED",
		})
	}
	return match, nil
}

func (s *roundService) CloseEvent(ctx context.Context, eventID int, abortCurrentRound bool) (*models.Event, error) {
	event, err := s.activeEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	err = runInTx(ctx, s.db, func(tx *sql.Tx) error {
		if abortCurrentRound && event.CurrentRound > 0 {
			if err := s.matchRepo.DeleteRound(ctx, tx, eventID, event.CurrentRound); err != nil {
				return err
			}
			if err := s.eventRepo.SetCurrentRound(ctx, tx, eventID, event.CurrentRound-1); err != nil {
				return err
			}
			event.CurrentRound--
		}
		return s.eventRepo.SetStatus(ctx, tx, eventID, models.EventStatusClosed)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to close event %d: %w", eventID, err)
	}
	event.Status = models.EventStatusClosed

	s.logger.Info("event closed",
		slog.Int("event_id", eventID),
		slog.Bool("aborted_round", abortCurrentRound),
		slog.Int("final_round", event.CurrentRound),
	)
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToEvent(eventID, map[string]interface{}{
			"type": "EVENT_CLOSED",
		})
	}
	return event, nil
}

func (s *roundService) RemainingSeconds(ctx context.Context, eventID int) (int64, bool, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return 0, false, ErrEventNotFound
		}
		return 0, false, fmt.Errorf("failed to get event %d: %w", eventID, err)
	}
	remaining, running := event.RemainingSeconds(time.Now())
	return remaining, running, nil
}

func (s *roundService) activeEvent(ctx context.Context, eventID int) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event %d: %w", eventID, err)
	}
	if event.Status != models.EventStatusActive {
		return nil, ErrEventNotActive
	}
	return event, nil
}

// persistRound writes the round's matches and the new round state in one
// transaction. BYE rows are stored pre-scored 2-0.
func (s *roundService) persistRound(ctx context.Context, event *models.Event, round int, pairings []swiss.Pairing) ([]*models.Match, error) {
	matches := make([]*models.Match, 0, len(pairings))
	for _, pairing := range pairings {
		match := &models.Match{
			EventID: event.ID,
			Round:   round,
			Player1: pairing.Player1,
			Player2: pairing.Player2,
			Bye:     pairing.Bye,
		}
		if pairing.Bye {
			match.Score1 = 2
			match.Score2 = 0
		}
		matches = append(matches, match)
	}

	now := time.Now().Unix()
	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		for _, match := range matches {
			if err := s.matchRepo.Create(ctx, tx, match); err != nil {
				return err
			}
		}
		return s.eventRepo.SetRoundState(ctx, tx, event.ID, round, now)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to persist round %d of event %d: %w", round, event.ID, err)
	}
	event.CurrentRound = round
	event.RoundStartTS = &now

	s.logger.Info("round started",
		slog.Int("event_id", event.ID),
		slog.Int("round", round),
		slog.Int("matches", len(matches)),
	)
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToEvent(event.ID, map[string]interface{}{
			"type":    "ROUND_STARTED",
			"round":   round,
			"matches": matches,
		})
	}
	return matches, nil
}

func validateScores(score1, score2 int) error {
	if score1 < 0 || score1 > 2 || score2 < 0 || score2 > 2 {
		return ErrScoreOutOfRange
	}
	if score1 == 2 && score2 == 2 {
		return ErrScoreBothMaxed
	}
	return nil
}

// requireRoundScored refuses to pair onward while a non-BYE match of the
// current round is still at 0-0.
func requireRoundScored(matches []*models.Match, round int) error {
	for _, match := range matches {
		if match.Round != round || match.Bye {
			continue
		}
		if match.Score1 == 0 && match.Score2 == 0 {
			return ErrRoundNotScored
		}
	}
	return nil
}

func mapPairingError(err error) error {
	switch {
	case errors.Is(err, swiss.ErrNotEnoughParticipants):
		return ErrParticipantListTooSmall
	case errors.Is(err, swiss.ErrPoolTooLarge),
		errors.Is(err, swiss.ErrUnknownParticipant),
		errors.Is(err, swiss.ErrMalformedMatch):
		return fmt.Errorf("%w: %v", ErrValidationFailed, err)
	default:
		return err
	}
}
