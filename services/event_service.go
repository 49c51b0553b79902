package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/Dosada05/event-companion/models"
	"github.com/Dosada05/event-companion/repositories"
)

// EventBroadcaster pushes live updates to everyone watching an event.
// Implemented by the websocket hub; a nil broadcaster disables pushes.
type EventBroadcaster interface {
	BroadcastToEvent(eventID int, message interface{})
}

type ParticipantInput struct {
	PlayerID  *int    `json:"player_id,omitempty"`
	GuestName *string `json:"guest_name,omitempty"`
}

type CreateEventInput struct {
	Name         string             `json:"name"`
	Type         string             `json:"type"`
	Rounds       int                `json:"rounds"`
	RoundSeconds int                `json:"round_seconds"`
	Participants []ParticipantInput `json:"participants"`
}

type EventDetails struct {
	Event        *models.Event              `json:"event"`
	Participants []*models.EventParticipant `json:"participants"`
	Matches      []*models.Match            `json:"matches"`
}

type EventService interface {
	// Create registers the event and seats its participants in random order.
	Create(ctx context.Context, input CreateEventInput) (*models.Event, error)
	GetDetails(ctx context.Context, id int) (*EventDetails, error)
	List(ctx context.Context, status *models.EventStatus) ([]*models.Event, error)
	// ReopenAtRound rewinds a (usually closed) event to the given round so an
	// earlier result can be corrected: every later round's matches are purged
	// and the round timer restarts.
	ReopenAtRound(ctx context.Context, id, round int) (*models.Event, error)
}

type eventService struct {
	db              *sql.DB
	eventRepo       repositories.EventRepository
	participantRepo repositories.ParticipantRepository
	matchRepo       repositories.MatchRepository
	broadcaster     EventBroadcaster
	logger          *slog.Logger

	rngMu sync.Mutex
	rng   *rand.Rand
}

func NewEventService(
	db *sql.DB,
	eventRepo repositories.EventRepository,
	participantRepo repositories.ParticipantRepository,
	matchRepo repositories.MatchRepository,
	broadcaster EventBroadcaster,
	logger *slog.Logger,
	rng *rand.Rand,
) EventService {
	return &eventService{
		db:              db,
		eventRepo:       eventRepo,
		participantRepo: participantRepo,
		matchRepo:       matchRepo,
		broadcaster:     broadcaster,
		logger:          logger,
		rng:             rng,
	}
}

func (s *eventService) Create(ctx context.Context, input CreateEventInput) (*models.Event, error) {
	if err := validateCreateEventInput(&input); err != nil {
		return nil, err
	}

	event := &models.Event{
		Name:         strings.TrimSpace(input.Name),
		Type:         strings.TrimSpace(input.Type),
		Rounds:       input.Rounds,
		RoundSeconds: input.RoundSeconds,
	}

	seating := s.shuffledSeating(len(input.Participants))

	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.eventRepo.Create(ctx, tx, event); err != nil {
			return err
		}
		for i, participant := range input.Participants {
			row := &models.EventParticipant{
				EventID:    event.ID,
				PlayerID:   participant.PlayerID,
				GuestName:  participant.GuestName,
				SeatingPos: seating[i],
			}
			if err := s.participantRepo.Create(ctx, tx, row); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repositories.ErrParticipantPlayerInvalid) {
			return nil, fmt.Errorf("%w: unknown player in participant list", ErrValidationFailed)
		}
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	s.logger.Info("event created",
		slog.Int("event_id", event.ID),
		slog.String("name", event.Name),
		slog.Int("participants", len(input.Participants)),
	)
	return event, nil
}

func (s *eventService) GetDetails(ctx context.Context, id int) (*EventDetails, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event %d: %w", id, err)
	}

	participants, err := s.participantRepo.ListByEvent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants for event %d: %w", id, err)
	}
	matches, err := s.matchRepo.ListByEvent(ctx, id, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for event %d: %w", id, err)
	}

	return &EventDetails{Event: event, Participants: participants, Matches: matches}, nil
}

func (s *eventService) List(ctx context.Context, status *models.EventStatus) ([]*models.Event, error) {
	events, err := s.eventRepo.List(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

func (s *eventService) ReopenAtRound(ctx context.Context, id, round int) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event %d: %w", id, err)
	}
	if round < 1 || round > event.CurrentRound {
		return nil, ErrInvalidReopenRound
	}

	now := time.Now().Unix()
	err = runInTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.matchRepo.DeleteRoundsAfter(ctx, tx, id, round); err != nil {
			return err
		}
		if err := s.eventRepo.SetStatus(ctx, tx, id, models.EventStatusActive); err != nil {
			return err
		}
		return s.eventRepo.SetRoundState(ctx, tx, id, round, now)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reopen event %d at round %d: %w", id, round, err)
	}

	event.Status = models.EventStatusActive
	event.CurrentRound = round
	event.RoundStartTS = &now

	s.logger.Info("event reopened", slog.Int("event_id", id), slog.Int("round", round))
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToEvent(id, map[string]interface{}{
			"type":  "ROUND_STARTED",
			"round": round,
		})
	}
	return event, nil
}

func (s *eventService) shuffledSeating(n int) []int {
	seating := make([]int, n)
	for i := range seating {
		seating[i] = i + 1
	}
	s.rngMu.Lock()
	s.rng.Shuffle(n, func(i, j int) {
		seating[i], seating[j] = seating[j], seating[i]
	})
	s.rngMu.Unlock()
	return seating
}

func validateCreateEventInput(input *CreateEventInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return ErrEventNameRequired
	}
	if input.Rounds <= 0 {
		return ErrEventInvalidRounds
	}
	if input.RoundSeconds <= 0 {
		return ErrEventInvalidRoundTime
	}
	if len(input.Participants) < 2 {
		return ErrParticipantListTooSmall
	}
	for i := range input.Participants {
		participant := &input.Participants[i]
		hasPlayer := participant.PlayerID != nil
		hasGuest := participant.GuestName != nil && strings.TrimSpace(*participant.GuestName) != ""
		if hasPlayer == hasGuest {
			return fmt.Errorf("%w: participant %d must have exactly one of player_id or guest_name", ErrValidationFailed, i)
		}
		if hasGuest {
			trimmed := strings.TrimSpace(*participant.GuestName)
			participant.GuestName = &trimmed
		}
	}
	return nil
}
