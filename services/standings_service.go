package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dosada05/event-companion/models"
	"github.com/Dosada05/event-companion/repositories"
	"github.com/Dosada05/event-companion/swiss"
	"golang.org/x/sync/errgroup"
)

type StandingsService interface {
	GetStandings(ctx context.Context, eventID int) ([]swiss.Standing, error)
}

type standingsService struct {
	eventRepo       repositories.EventRepository
	participantRepo repositories.ParticipantRepository
	matchRepo       repositories.MatchRepository
}

func NewStandingsService(
	eventRepo repositories.EventRepository,
	participantRepo repositories.ParticipantRepository,
	matchRepo repositories.MatchRepository,
) StandingsService {
	return &standingsService{
		eventRepo:       eventRepo,
		participantRepo: participantRepo,
		matchRepo:       matchRepo,
	}
}

func (s *standingsService) GetStandings(ctx context.Context, eventID int) ([]swiss.Standing, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event %d: %w", eventID, err)
	}

	var (
		participants []*models.EventParticipant
		matches      []*models.Match
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		participants, err = s.participantRepo.ListByEvent(gctx, eventID)
		return err
	})
	g.Go(func() error {
		var err error
		matches, err = s.matchRepo.ListByEvent(gctx, eventID, nil)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load standings inputs for event %d: %w", eventID, err)
	}

	standings, err := swiss.ComputeStandings(participants, matches)
	if err != nil {
		return nil, fmt.Errorf("failed to compute standings for event %d: %w", eventID, err)
	}
	return standings, nil
}
