package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Dosada05/event-companion/cache"
	"github.com/Dosada05/event-companion/models"
	"github.com/Dosada05/event-companion/repositories"
	"github.com/Dosada05/event-companion/swiss"
	"golang.org/x/sync/errgroup"
)

// leagueLoadConcurrency bounds the parallel event loads during a table
// rebuild.
const leagueLoadConcurrency = 4

type LeagueService interface {
	// Open starts a new scoring window. Only one league may be open.
	Open(ctx context.Context, name *string) (*models.League, error)
	Close(ctx context.Context, id int) (*models.League, error)
	List(ctx context.Context) ([]*models.League, error)
	// GetTable aggregates every closed event inside the league's window into
	// the decaying-confidence score table.
	GetTable(ctx context.Context, id int) (*models.League, []swiss.LeagueRow, error)
	GetCurrentTable(ctx context.Context) (*models.League, []swiss.LeagueRow, error)
	// TopCached serves the best-N identities from the Redis mirror, falling
	// back to a full rebuild when the mirror is cold.
	TopCached(ctx context.Context, id, n int) ([]cache.Entry, error)
}

type leagueService struct {
	leagueRepo      repositories.LeagueRepository
	eventRepo       repositories.EventRepository
	participantRepo repositories.ParticipantRepository
	matchRepo       repositories.MatchRepository
	leaderboard     *cache.LeaderboardCache
	logger          *slog.Logger
}

func NewLeagueService(
	leagueRepo repositories.LeagueRepository,
	eventRepo repositories.EventRepository,
	participantRepo repositories.ParticipantRepository,
	matchRepo repositories.MatchRepository,
	leaderboard *cache.LeaderboardCache,
	logger *slog.Logger,
) LeagueService {
	return &leagueService{
		leagueRepo:      leagueRepo,
		eventRepo:       eventRepo,
		participantRepo: participantRepo,
		matchRepo:       matchRepo,
		leaderboard:     leaderboard,
		logger:          logger,
	}
}

func (s *leagueService) Open(ctx context.Context, name *string) (*models.League, error) {
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			name = nil
		} else {
			name = &trimmed
		}
	}

	league := &models.League{Name: name, StartTS: time.Now().Unix()}
	if err := s.leagueRepo.Create(ctx, league); err != nil {
		if errors.Is(err, repositories.ErrLeagueAlreadyOpen) {
			return nil, ErrLeagueAlreadyOpen
		}
		return nil, fmt.Errorf("failed to open league: %w", err)
	}

	s.logger.Info("league opened", slog.Int("league_id", league.ID))
	return league, nil
}

func (s *leagueService) Close(ctx context.Context, id int) (*models.League, error) {
	endTS := time.Now().Unix()
	if err := s.leagueRepo.Close(ctx, nil, id, endTS); err != nil {
		if errors.Is(err, repositories.ErrLeagueNotFound) {
			return nil, ErrLeagueNotFound
		}
		return nil, fmt.Errorf("failed to close league %d: %w", id, err)
	}

	if s.leaderboard != nil {
		if err := s.leaderboard.Invalidate(ctx, id); err != nil {
			s.logger.Warn("league leaderboard invalidation failed", slog.Int("league_id", id), slog.Any("error", err))
		}
	}

	s.logger.Info("league closed", slog.Int("league_id", id))
	return s.leagueRepo.GetByID(ctx, id)
}

func (s *leagueService) List(ctx context.Context) ([]*models.League, error) {
	leagues, err := s.leagueRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list leagues: %w", err)
	}
	return leagues, nil
}

func (s *leagueService) GetTable(ctx context.Context, id int) (*models.League, []swiss.LeagueRow, error) {
	league, err := s.leagueRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrLeagueNotFound) {
			return nil, nil, ErrLeagueNotFound
		}
		return nil, nil, fmt.Errorf("failed to get league %d: %w", id, err)
	}

	rows, err := s.buildTable(ctx, league)
	if err != nil {
		return nil, nil, err
	}
	return league, rows, nil
}

func (s *leagueService) GetCurrentTable(ctx context.Context) (*models.League, []swiss.LeagueRow, error) {
	league, err := s.leagueRepo.FindOpen(ctx)
	if err != nil {
		if errors.Is(err, repositories.ErrLeagueNotFound) {
			return nil, nil, ErrLeagueNotFound
		}
		return nil, nil, fmt.Errorf("failed to find open league: %w", err)
	}

	rows, err := s.buildTable(ctx, league)
	if err != nil {
		return nil, nil, err
	}
	return league, rows, nil
}

func (s *leagueService) TopCached(ctx context.Context, id, n int) ([]cache.Entry, error) {
	if s.leaderboard == nil {
		return nil, fmt.Errorf("league leaderboard cache is not configured")
	}

	entries, err := s.leaderboard.TopN(ctx, id, n)
	if err == nil && len(entries) > 0 {
		return entries, nil
	}
	if err != nil {
		s.logger.Warn("league leaderboard read failed, rebuilding", slog.Int("league_id", id), slog.Any("error", err))
	}

	if _, _, err := s.GetTable(ctx, id); err != nil {
		return nil, err
	}
	return s.leaderboard.TopN(ctx, id, n)
}

func (s *leagueService) buildTable(ctx context.Context, league *models.League) ([]swiss.LeagueRow, error) {
	eventIDs, err := s.eventRepo.ListClosedIDsInWindow(ctx, league.StartTS, league.EndTS)
	if err != nil {
		return nil, fmt.Errorf("failed to list events for league %d: %w", league.ID, err)
	}

	histories := make([]swiss.EventHistory, len(eventIDs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(leagueLoadConcurrency)
	for i, eventID := range eventIDs {
		i, eventID := i, eventID
		g.Go(func() error {
			history, err := s.loadEventHistory(gctx, eventID)
			if err != nil {
				return err
			}
			histories[i] = history
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load league %d history: %w", league.ID, err)
	}

	rows := swiss.AggregateLeague(histories)

	if s.leaderboard != nil {
		entries := make([]cache.Entry, 0, len(rows))
		for _, row := range rows {
			entries = append(entries, cache.Entry{Key: row.Key, Score: row.Score})
		}
		if err := s.leaderboard.Store(ctx, league.ID, entries); err != nil {
			s.logger.Warn("league leaderboard store failed", slog.Int("league_id", league.ID), slog.Any("error", err))
		}
	}
	return rows, nil
}

func (s *leagueService) loadEventHistory(ctx context.Context, eventID int) (swiss.EventHistory, error) {
	participants, err := s.participantRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return swiss.EventHistory{}, err
	}
	matches, err := s.matchRepo.ListByEvent(ctx, eventID, nil)
	if err != nil {
		return swiss.EventHistory{}, err
	}

	history := swiss.EventHistory{
		Identity: make(map[int]string, len(participants)),
		Names:    make(map[string]string, len(participants)),
		Matches:  matches,
	}
	for _, participant := range participants {
		var key string
		if participant.PlayerID != nil {
			key = swiss.PlayerKey(*participant.PlayerID)
		} else {
			key = swiss.GuestKey(derefString(participant.GuestName))
		}
		history.Identity[participant.ID] = key
		history.Names[key] = participant.DisplayName()
	}
	return history, nil
}
