package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Dosada05/event-companion/models"
	"github.com/lib/pq"
)

var (
	ErrMatchNotFound           = errors.New("match not found")
	ErrMatchEventInvalid       = errors.New("match references a non-existent event")
	ErrMatchParticipantInvalid = errors.New("match references a non-existent participant")
)

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	// ListByEvent returns matches ordered by round then id; round narrows the
	// listing to a single round when non-nil.
	ListByEvent(ctx context.Context, eventID int, round *int) ([]*models.Match, error)
	UpdateScores(ctx context.Context, exec SQLExecutor, id, score1, score2 int) error
	DeleteRound(ctx context.Context, exec SQLExecutor, eventID, round int) error
	// DeleteRoundsAfter purges every match of later rounds, used when an event
	// is reopened at an earlier round.
	DeleteRoundsAfter(ctx context.Context, exec SQLExecutor, eventID, round int) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) executor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	query := `
		INSERT INTO matches (event_id, round, player1, player2, score_p1, score_p2, bye)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	err := r.executor(exec).QueryRowContext(ctx, query,
		match.EventID, match.Round, match.Player1, match.Player2,
		match.Score1, match.Score2, match.Bye).
		Scan(&match.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			if pqErr.Constraint == "matches_event_id_fkey" {
				return ErrMatchEventInvalid
			}
			return ErrMatchParticipantInvalid
		}
		return fmt.Errorf("failed to create match: %w", err)
	}
	return nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `
		SELECT id, event_id, round, player1, player2, score_p1, score_p2, bye
		FROM matches
		WHERE id = $1`

	match := &models.Match{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&match.ID, &match.EventID, &match.Round, &match.Player1, &match.Player2,
		&match.Score1, &match.Score2, &match.Bye,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match %d: %w", id, err)
	}
	return match, nil
}

func (r *postgresMatchRepository) ListByEvent(ctx context.Context, eventID int, round *int) ([]*models.Match, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT id, event_id, round, player1, player2, score_p1, score_p2, bye
		FROM matches
		WHERE event_id = $1`)

	args := []interface{}{eventID}
	if round != nil {
		queryBuilder.WriteString(` AND round = $2`)
		args = append(args, *round)
	}
	queryBuilder.WriteString(` ORDER BY round ASC, id ASC`)

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches for event %d: %w", eventID, err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		var match models.Match
		scanErr := rows.Scan(
			&match.ID, &match.EventID, &match.Round, &match.Player1, &match.Player2,
			&match.Score1, &match.Score2, &match.Bye,
		)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", scanErr)
		}
		matches = append(matches, &match)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match rows iteration: %w", err)
	}
	return matches, nil
}

func (r *postgresMatchRepository) UpdateScores(ctx context.Context, exec SQLExecutor, id, score1, score2 int) error {
	query := `UPDATE matches SET score_p1 = $1, score_p2 = $2 WHERE id = $3`
	result, err := r.executor(exec).ExecContext(ctx, query, score1, score2, id)
	if err != nil {
		return fmt.Errorf("failed to update scores for match %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) DeleteRound(ctx context.Context, exec SQLExecutor, eventID, round int) error {
	query := `DELETE FROM matches WHERE event_id = $1 AND round = $2`
	if _, err := r.executor(exec).ExecContext(ctx, query, eventID, round); err != nil {
		return fmt.Errorf("failed to delete round %d of event %d: %w", round, eventID, err)
	}
	return nil
}

func (r *postgresMatchRepository) DeleteRoundsAfter(ctx context.Context, exec SQLExecutor, eventID, round int) error {
	query := `DELETE FROM matches WHERE event_id = $1 AND round > $2`
	if _, err := r.executor(exec).ExecContext(ctx, query, eventID, round); err != nil {
		return fmt.Errorf("failed to delete rounds after %d of event %d: %w", round, eventID, err)
	}
	return nil
}
