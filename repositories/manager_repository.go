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
	ErrManagerNotFound      = errors.New("manager not found")
	ErrManagerEmailConflict = errors.New("manager email is already registered")
)

type ManagerRepository interface {
	Create(ctx context.Context, manager *models.Manager) error
	GetByEmail(ctx context.Context, email string) (*models.Manager, error)
	GetByID(ctx context.Context, id int) (*models.Manager, error)
}

type postgresManagerRepository struct {
	db *sql.DB
}

func NewPostgresManagerRepository(db *sql.DB) ManagerRepository {
	return &postgresManagerRepository{db: db}
}

func (r *postgresManagerRepository) Create(ctx context.Context, manager *models.Manager) error {
	query := `
		INSERT INTO managers (email, password_hash)
		VALUES ($1, $2)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, manager.Email, manager.PasswordHash).
		Scan(&manager.ID, &manager.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" && pqErr.Constraint == "managers_email_key" {
			return ErrManagerEmailConflict
		}
		return fmt.Errorf("failed to create manager: %w", err)
	}
	return nil
}

func (r *postgresManagerRepository) GetByEmail(ctx context.Context, email string) (*models.Manager, error) {
	query := `SELECT id, email, password_hash, created_at FROM managers WHERE email = $1`

	manager := &models.Manager{}
	err := r.db.QueryRowContext(ctx, query, email).
		Scan(&manager.ID, &manager.Email, &manager.PasswordHash, &manager.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrManagerNotFound
		}
		return nil, fmt.Errorf("failed to scan manager by email: %w", err)
	}
	return manager, nil
}

func (r *postgresManagerRepository) GetByID(ctx context.Context, id int) (*models.Manager, error) {
	query := `SELECT id, email, password_hash, created_at FROM managers WHERE id = $1`

	manager := &models.Manager{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&manager.ID, &manager.Email, &manager.PasswordHash, &manager.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrManagerNotFound
		}
		return nil, fmt.Errorf("failed to scan manager %d: %w", id, err)
	}
	return manager, nil
}
