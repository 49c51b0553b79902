package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/event-companion/models"
	"github.com/Dosada05/event-companion/repositories"
)

type PlayerService interface {
	Create(ctx context.Context, name string) (*models.Player, error)
	GetByID(ctx context.Context, id int) (*models.Player, error)
	List(ctx context.Context) ([]*models.Player, error)
	// Delete refuses while the player sits in an active event; otherwise the
	// player's event history is converted to guest rows carrying their name.
	Delete(ctx context.Context, id int) error
	// RebuildNicknames recomputes every nickname from scratch, giving each
	// player the minimal surname prefix unique among same-first-name players.
	RebuildNicknames(ctx context.Context) error
}

type playerService struct {
	db              *sql.DB
	playerRepo      repositories.PlayerRepository
	participantRepo repositories.ParticipantRepository
	logger          *slog.Logger
}

func NewPlayerService(
	db *sql.DB,
	playerRepo repositories.PlayerRepository,
	participantRepo repositories.ParticipantRepository,
	logger *slog.Logger,
) PlayerService {
	return &playerService{
		db:              db,
		playerRepo:      playerRepo,
		participantRepo: participantRepo,
		logger:          logger,
	}
}

func (s *playerService) Create(ctx context.Context, name string) (*models.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrPlayerNameRequired
	}

	taken, err := s.takenNicknames(ctx)
	if err != nil {
		return nil, err
	}
	nickname := computeUniqueNickname(name, taken)

	player := &models.Player{Name: name, Nickname: &nickname}
	if err := s.playerRepo.Create(ctx, player); err != nil {
		if errors.Is(err, repositories.ErrPlayerNameConflict) {
			return nil, ErrPlayerNameConflict
		}
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	// A new name can force longer prefixes on existing nicknames, so the whole
	// set is rebalanced after the insert.
	if err := s.RebuildNicknames(ctx); err != nil {
		s.logger.Warn("nickname rebuild after create failed", slog.Int("player_id", player.ID), slog.Any("error", err))
		return player, nil
	}
	return s.GetByID(ctx, player.ID)
}

func (s *playerService) GetByID(ctx context.Context, id int) (*models.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player %d: %w", id, err)
	}
	return player, nil
}

func (s *playerService) List(ctx context.Context) ([]*models.Player, error) {
	players, err := s.playerRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	return players, nil
}

func (s *playerService) Delete(ctx context.Context, id int) error {
	player, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	active, err := s.playerRepo.CountActiveEventMemberships(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check active memberships: %w", err)
	}
	if active > 0 {
		return ErrPlayerInActiveEvent
	}

	err = runInTx(ctx, s.db, func(tx *sql.Tx) error {
		// Closed-event history keeps the player's name as a guest entry.
		if err := s.participantRepo.DetachPlayer(ctx, tx, id, player.Name); err != nil {
			return err
		}
		return s.playerRepo.Delete(ctx, tx, id)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return ErrPlayerNotFound
		}
		return err
	}

	// The freed name may unlock shorter nicknames for everyone else.
	if err := s.RebuildNicknames(ctx); err != nil {
		s.logger.Warn("nickname rebuild after delete failed", slog.Int("player_id", id), slog.Any("error", err))
	}
	return nil
}

func (s *playerService) RebuildNicknames(ctx context.Context) error {
	players, err := s.playerRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list players for nickname rebuild: %w", err)
	}

	nicknames := computeAllNicknames(players)
	return runInTx(ctx, s.db, func(tx *sql.Tx) error {
		for _, player := range players {
			nickname, ok := nicknames[player.ID]
			if !ok || derefString(player.Nickname) == nickname {
				continue
			}
			if err := s.playerRepo.UpdateNickname(ctx, tx, player.ID, nickname); err != nil {
				return fmt.Errorf("failed to update nickname for player %d: %w", player.ID, err)
			}
		}
		return nil
	})
}

func (s *playerService) takenNicknames(ctx context.Context) (map[string]bool, error) {
	players, err := s.playerRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	taken := make(map[string]bool, len(players))
	for _, player := range players {
		if player.Nickname != nil && *player.Nickname != "" {
			taken[strings.ToLower(*player.Nickname)] = true
		}
	}
	return taken, nil
}
