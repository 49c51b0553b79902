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
	ErrLeagueNotFound    = errors.New("league not found")
	ErrLeagueAlreadyOpen = errors.New("another league is still open")
)

type LeagueRepository interface {
	Create(ctx context.Context, league *models.League) error
	GetByID(ctx context.Context, id int) (*models.League, error)
	List(ctx context.Context) ([]*models.League, error)
	// FindOpen returns the single open league or ErrLeagueNotFound.
	FindOpen(ctx context.Context) (*models.League, error)
	Close(ctx context.Context, exec SQLExecutor, id int, endTS int64) error
}

type postgresLeagueRepository struct {
	db *sql.DB
}

func NewPostgresLeagueRepository(db *sql.DB) LeagueRepository {
	return &postgresLeagueRepository{db: db}
}

func (r *postgresLeagueRepository) Create(ctx context.Context, league *models.League) error {
	query := `
		INSERT INTO leagues (name, start_ts)
		VALUES ($1, $2)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query, league.Name, league.StartTS).Scan(&league.ID)
	if err != nil {
		// leagues_single_open_idx is a partial unique index over open rows.
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" && pqErr.Constraint == "leagues_single_open_idx" {
			return ErrLeagueAlreadyOpen
		}
		return fmt.Errorf("failed to create league: %w", err)
	}
	return nil
}

func (r *postgresLeagueRepository) GetByID(ctx context.Context, id int) (*models.League, error) {
	query := `SELECT id, name, start_ts, end_ts FROM leagues WHERE id = $1`

	league := &models.League{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&league.ID, &league.Name, &league.StartTS, &league.EndTS)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLeagueNotFound
		}
		return nil, fmt.Errorf("failed to scan league %d: %w", id, err)
	}
	return league, nil
}

func (r *postgresLeagueRepository) List(ctx context.Context) ([]*models.League, error) {
	query := `SELECT id, name, start_ts, end_ts FROM leagues ORDER BY start_ts DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query leagues: %w", err)
	}
	defer rows.Close()

	leagues := make([]*models.League, 0)
	for rows.Next() {
		var league models.League
		if scanErr := rows.Scan(&league.ID, &league.Name, &league.StartTS, &league.EndTS); scanErr != nil {
			return nil, fmt.Errorf("failed to scan league row: %w", scanErr)
		}
		leagues = append(leagues, &league)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during league rows iteration: %w", err)
	}
	return leagues, nil
}

func (r *postgresLeagueRepository) FindOpen(ctx context.Context) (*models.League, error) {
	query := `SELECT id, name, start_ts, end_ts FROM leagues WHERE end_ts IS NULL`

	league := &models.League{}
	err := r.db.QueryRowContext(ctx, query).
		Scan(&league.ID, &league.Name, &league.StartTS, &league.EndTS)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLeagueNotFound
		}
		return nil, fmt.Errorf("failed to scan open league: %w", err)
	}
	return league, nil
}

func (r *postgresLeagueRepository) Close(ctx context.Context, exec SQLExecutor, id int, endTS int64) error {
	executor := SQLExecutor(r.db)
	if exec != nil {
		executor = exec
	}
	query := `UPDATE leagues SET end_ts = $1 WHERE id = $2 AND end_ts IS NULL`
	result, err := executor.ExecContext(ctx, query, endTS, id)
	if err != nil {
		return fmt.Errorf("failed to close league %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrLeagueNotFound)
}
