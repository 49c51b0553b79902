package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/event-companion/models"
	"github.com/lib/pq"
)

var (
	ErrParticipantNotFound          = errors.New("event participant not found")
	ErrParticipantEventInvalid      = errors.New("participant references a non-existent event")
	ErrParticipantPlayerInvalid     = errors.New("participant references a non-existent player")
	ErrParticipantIdentityViolation = errors.New("participant must have exactly one of player or guest name")
)

type ParticipantRepository interface {
	Create(ctx context.Context, exec SQLExecutor, participant *models.EventParticipant) error
	// ListByEvent returns participants in seating order with the registered
	// player's name and nickname joined in.
	ListByEvent(ctx context.Context, eventID int) ([]*models.EventParticipant, error)
	// DetachPlayer converts every participant row of a player into a guest row
	// carrying the given name, so closed-event history survives the deletion.
	DetachPlayer(ctx context.Context, exec SQLExecutor, playerID int, guestName string) error
}

type postgresParticipantRepository struct {
	db *sql.DB
}

func NewPostgresParticipantRepository(db *sql.DB) ParticipantRepository {
	return &postgresParticipantRepository{db: db}
}

func (r *postgresParticipantRepository) executor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresParticipantRepository) Create(ctx context.Context, exec SQLExecutor, participant *models.EventParticipant) error {
	query := `
		INSERT INTO event_players (event_id, player_id, guest_name, seating_pos)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err := r.executor(exec).QueryRowContext(ctx, query,
		participant.EventID, participant.PlayerID, participant.GuestName, participant.SeatingPos).
		Scan(&participant.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch {
			case pqErr.Code == "23503" && pqErr.Constraint == "event_players_event_id_fkey":
				return ErrParticipantEventInvalid
			case pqErr.Code == "23503" && pqErr.Constraint == "event_players_player_id_fkey":
				return ErrParticipantPlayerInvalid
			case pqErr.Code == "23514" && pqErr.Constraint == "event_players_identity_check":
				return ErrParticipantIdentityViolation
			}
		}
		return fmt.Errorf("failed to create event participant: %w", err)
	}
	return nil
}

func (r *postgresParticipantRepository) ListByEvent(ctx context.Context, eventID int) ([]*models.EventParticipant, error) {
	query := `
		SELECT ep.id, ep.event_id, ep.player_id, ep.guest_name, ep.seating_pos,
		       p.name, p.nickname
		FROM event_players ep
		LEFT JOIN players p ON p.id = ep.player_id
		WHERE ep.event_id = $1
		ORDER BY ep.seating_pos ASC, ep.id ASC`

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants for event %d: %w", eventID, err)
	}
	defer rows.Close()

	participants := make([]*models.EventParticipant, 0)
	for rows.Next() {
		var participant models.EventParticipant
		scanErr := rows.Scan(
			&participant.ID, &participant.EventID, &participant.PlayerID,
			&participant.GuestName, &participant.SeatingPos,
			&participant.PlayerName, &participant.PlayerNickname,
		)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan participant row: %w", scanErr)
		}
		participants = append(participants, &participant)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during participant rows iteration: %w", err)
	}
	return participants, nil
}

func (r *postgresParticipantRepository) DetachPlayer(ctx context.Context, exec SQLExecutor, playerID int, guestName string) error {
	query := `UPDATE event_players SET player_id = NULL, guest_name = $1 WHERE player_id = $2`
	if _, err := r.executor(exec).ExecContext(ctx, query, guestName, playerID); err != nil {
		return fmt.Errorf("failed to detach player %d from events: %w", playerID, err)
	}
	return nil
}
