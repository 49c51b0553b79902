package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Dosada05/event-companion/models"
)

var ErrEventNotFound = errors.New("event not found")

type EventRepository interface {
	Create(ctx context.Context, exec SQLExecutor, event *models.Event) error
	GetByID(ctx context.Context, id int) (*models.Event, error)
	List(ctx context.Context, status *models.EventStatus) ([]*models.Event, error)
	// SetRoundState advances (or rewinds) the round counter and restamps the
	// round start time in one write.
	SetRoundState(ctx context.Context, exec SQLExecutor, id, currentRound int, roundStartTS int64) error
	SetStatus(ctx context.Context, exec SQLExecutor, id int, status models.EventStatus) error
	SetCurrentRound(ctx context.Context, exec SQLExecutor, id, round int) error
	// ListClosedIDsInWindow returns closed events whose last round started
	// inside [startTS, endTS], both bounds inclusive; an open window has
	// endTS == nil.
	ListClosedIDsInWindow(ctx context.Context, startTS int64, endTS *int64) ([]int, error)
}

type postgresEventRepository struct {
	db *sql.DB
}

func NewPostgresEventRepository(db *sql.DB) EventRepository {
	return &postgresEventRepository{db: db}
}

func (r *postgresEventRepository) executor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresEventRepository) Create(ctx context.Context, exec SQLExecutor, event *models.Event) error {
	query := `
		INSERT INTO events (name, type, rounds, round_time, status, current_round)
		VALUES ($1, $2, $3, $4, $5, 0)
		RETURNING id, created_at`

	err := r.executor(exec).QueryRowContext(ctx, query,
		event.Name, event.Type, event.Rounds, event.RoundSeconds, models.EventStatusActive).
		Scan(&event.ID, &event.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	event.Status = models.EventStatusActive
	event.CurrentRound = 0
	return nil
}

func (r *postgresEventRepository) GetByID(ctx context.Context, id int) (*models.Event, error) {
	query := `
		SELECT id, name, type, rounds, round_time, status, current_round, round_start_ts, created_at
		FROM events
		WHERE id = $1`

	event := &models.Event{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&event.ID, &event.Name, &event.Type, &event.Rounds, &event.RoundSeconds,
		&event.Status, &event.CurrentRound, &event.RoundStartTS, &event.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to scan event %d: %w", id, err)
	}
	return event, nil
}

func (r *postgresEventRepository) List(ctx context.Context, status *models.EventStatus) ([]*models.Event, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT id, name, type, rounds, round_time, status, current_round, round_start_ts, created_at
		FROM events`)

	args := make([]interface{}, 0, 1)
	if status != nil {
		queryBuilder.WriteString(` WHERE status = $1`)
		args = append(args, *status)
	}
	queryBuilder.WriteString(` ORDER BY created_at DESC, id DESC`)

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	events := make([]*models.Event, 0)
	for rows.Next() {
		var event models.Event
		scanErr := rows.Scan(
			&event.ID, &event.Name, &event.Type, &event.Rounds, &event.RoundSeconds,
			&event.Status, &event.CurrentRound, &event.RoundStartTS, &event.CreatedAt,
		)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", scanErr)
		}
		events = append(events, &event)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during event rows iteration: %w", err)
	}
	return events, nil
}

func (r *postgresEventRepository) SetRoundState(ctx context.Context, exec SQLExecutor, id, currentRound int, roundStartTS int64) error {
	query := `UPDATE events SET current_round = $1, round_start_ts = $2 WHERE id = $3`
	result, err := r.executor(exec).ExecContext(ctx, query, currentRound, roundStartTS, id)
	if err != nil {
		return fmt.Errorf("failed to set round state for event %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrEventNotFound)
}

func (r *postgresEventRepository) SetStatus(ctx context.Context, exec SQLExecutor, id int, status models.EventStatus) error {
	result, err := r.executor(exec).ExecContext(ctx, `UPDATE events SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to set status for event %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrEventNotFound)
}

func (r *postgresEventRepository) SetCurrentRound(ctx context.Context, exec SQLExecutor, id, round int) error {
	result, err := r.executor(exec).ExecContext(ctx, `UPDATE events SET current_round = $1 WHERE id = $2`, round, id)
	if err != nil {
		return fmt.Errorf("failed to set current round for event %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrEventNotFound)
}

func (r *postgresEventRepository) ListClosedIDsInWindow(ctx context.Context, startTS int64, endTS *int64) ([]int, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT id FROM events
		WHERE status = 'closed' AND round_start_ts IS NOT NULL AND round_start_ts >= $1`)

	args := []interface{}{startTS}
	if endTS != nil {
		queryBuilder.WriteString(` AND round_start_ts <= $2`)
		args = append(args, *endTS)
	}
	queryBuilder.WriteString(` ORDER BY id ASC`)

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query closed events in window: %w", err)
	}
	defer rows.Close()

	ids := make([]int, 0)
	for rows.Next() {
		var id int
		if scanErr := rows.Scan(&id); scanErr != nil {
			return nil, fmt.Errorf("failed to scan event id: %w", scanErr)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during event id iteration: %w", err)
	}
	return ids, nil
}
