package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"gemtrader/internal/domain"
)

const userColumns = `id, username, gem_balance, rank, total_trades,
		       current_streak, longest_streak, last_trade_time, created_at`

// UserRepositoryImpl implements the UserRepository interface
type UserRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) domain.UserRepository {
	return &UserRepositoryImpl{db: db}
}

// Create creates a new user
func (r *UserRepositoryImpl) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (
			username, gem_balance, rank, total_trades,
			current_streak, longest_streak, last_trade_time, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		user.Username,
		user.GemBalance,
		user.Rank,
		user.TotalTrades,
		user.CurrentStreak,
		user.LongestStreak,
		user.LastTradeTime,
		user.CreatedAt,
	).Scan(&user.ID)

	if isUniqueViolation(err) {
		return domain.Validation("Username already taken: %s", user.Username)
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepositoryImpl) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if isNoRows(err) {
		return nil, domain.NotFound(domain.EntityUser, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	return user, nil
}

// GetByUsername retrieves a user by username
func (r *UserRepositoryImpl) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, username))
	if isNoRows(err) {
		return nil, domain.NotFound(domain.EntityUser, username)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	return user, nil
}

// GetAll retrieves all users
func (r *UserRepositoryImpl) GetAll(ctx context.Context) ([]*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query all users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

// UpdateRanks writes every rank in one batch
func (r *UserRepositoryImpl) UpdateRanks(ctx context.Context, ranks map[int64]int) error {
	if len(ranks) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for id, rank := range ranks {
		batch.Queue(`UPDATE users SET rank = $1 WHERE id = $2`, rank, id)
	}

	if err := r.db.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to update ranks: %w", err)
	}

	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	user := &domain.User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.GemBalance,
		&user.Rank,
		&user.TotalTrades,
		&user.CurrentStreak,
		&user.LongestStreak,
		&user.LastTradeTime,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}
