package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Dosada05/event-companion/models"
)

// SnapshotRepository reads the whole store in one pass for backup exports.
type SnapshotRepository interface {
	ExportAll(ctx context.Context) (*models.Snapshot, error)
}

type postgresSnapshotRepository struct {
	db *sql.DB
}

func NewPostgresSnapshotRepository(db *sql.DB) SnapshotRepository {
	return &postgresSnapshotRepository{db: db}
}

func (r *postgresSnapshotRepository) ExportAll(ctx context.Context) (*models.Snapshot, error) {
	snapshot := &models.Snapshot{TakenAt: time.Now().UTC()}

	if err := r.loadPlayers(ctx, snapshot); err != nil {
		return nil, err
	}
	if err := r.loadEvents(ctx, snapshot); err != nil {
		return nil, err
	}
	if err := r.loadParticipants(ctx, snapshot); err != nil {
		return nil, err
	}
	if err := r.loadMatches(ctx, snapshot); err != nil {
		return nil, err
	}
	if err := r.loadLeagues(ctx, snapshot); err != nil {
		return nil, err
	}
	return snapshot, nil
}

func (r *postgresSnapshotRepository) loadPlayers(ctx context.Context, snapshot *models.Snapshot) error {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, nickname, created_at FROM players ORDER BY id`)
	if err != nil {
		return fmt.Errorf("failed to export players: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var player models.Player
		if err := rows.Scan(&player.ID, &player.Name, &player.Nickname, &player.CreatedAt); err != nil {
			return fmt.Errorf("failed to scan player for export: %w", err)
		}
		snapshot.Players = append(snapshot.Players, player)
	}
	return rows.Err()
}

func (r *postgresSnapshotRepository) loadEvents(ctx context.Context, snapshot *models.Snapshot) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, type, rounds, round_time, status, current_round, round_start_ts, created_at
		FROM events ORDER BY id`)
	if err != nil {
		return fmt.Errorf("failed to export events: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var event models.Event
		err := rows.Scan(
			&event.ID, &event.Name, &event.Type, &event.Rounds, &event.RoundSeconds,
			&event.Status, &event.CurrentRound, &event.RoundStartTS, &event.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to scan event for export: %w", err)
		}
		snapshot.Events = append(snapshot.Events, event)
	}
	return rows.Err()
}

func (r *postgresSnapshotRepository) loadParticipants(ctx context.Context, snapshot *models.Snapshot) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, event_id, player_id, guest_name, seating_pos
		FROM event_players ORDER BY id`)
	if err != nil {
		return fmt.Errorf("failed to export participants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var participant models.EventParticipant
		err := rows.Scan(
			&participant.ID, &participant.EventID, &participant.PlayerID,
			&participant.GuestName, &participant.SeatingPos,
		)
		if err != nil {
			return fmt.Errorf("failed to scan participant for export: %w", err)
		}
		snapshot.Participants = append(snapshot.Participants, participant)
	}
	return rows.Err()
}

func (r *postgresSnapshotRepository) loadMatches(ctx context.Context, snapshot *models.Snapshot) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, event_id, round, player1, player2, score_p1, score_p2, bye
		FROM matches ORDER BY id`)
	if err != nil {
		return fmt.Errorf("failed to export matches: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var match models.Match
		err := rows.Scan(
			&match.ID, &match.EventID, &match.Round, &match.Player1, &match.Player2,
			&match.Score1, &match.Score2, &match.Bye,
		)
		if err != nil {
			return fmt.Errorf("failed to scan match for export: %w", err)
		}
		snapshot.Matches = append(snapshot.Matches, match)
	}
	return rows.Err()
}

func (r *postgresSnapshotRepository) loadLeagues(ctx context.Context, snapshot *models.Snapshot) error {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, start_ts, end_ts FROM leagues ORDER BY id`)
	if err != nil {
		return fmt.Errorf("failed to export leagues: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var league models.League
		if err := rows.Scan(&league.ID, &league.Name, &league.StartTS, &league.EndTS); err != nil {
			return fmt.Errorf("failed to scan league for export: %w", err)
		}
		snapshot.Leagues = append(snapshot.Leagues, league)
	}
	return rows.Err()
}
