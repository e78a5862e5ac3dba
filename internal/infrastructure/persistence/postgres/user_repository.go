package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alchemorsel/recipeshare/internal/domain/user"
	"github.com/alchemorsel/recipeshare/internal/ports/outbound"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// UserRepository implements the user repository interface
type UserRepository struct {
	db     *Gateway
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *Gateway, logger *zap.Logger) outbound.UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger.Named("user-repository"),
	}
}

const userColumns = `user_id, username, firstname, lastname, country, email, password, created_at`

// Create inserts u, checking the username inside the same transaction. The
// unique index still guards against a concurrent insert.
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	p := u.Profile()

	err := r.db.InTx(ctx, func(q Querier) error {
		var taken bool
		if err := q.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, p.Username,
		).Scan(&taken); err != nil {
			return err
		}
		if taken {
			return user.ErrUsernameTaken
		}

		var id int64
		if err := q.QueryRow(ctx,
			`INSERT INTO users (username, firstname, lastname, country, email, password, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 RETURNING user_id`,
			p.Username, p.FirstName, p.LastName, p.Country, p.Email, u.PasswordHash(), u.CreatedAt(),
		).Scan(&id); err != nil {
			return err
		}
		u.AssignID(id)
		return nil
	})

	switch {
	case err == nil:
		r.logger.Info("User created", zap.Int64("user_id", u.ID()))
		return nil
	case errors.Is(err, user.ErrUsernameTaken), pgErrorCode(err) == uniqueViolation:
		return user.ErrUsernameTaken
	default:
		return fmt.Errorf("insert user: %w", err)
	}
}

// FindByID retrieves a user by ID
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*user.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE user_id = $1`, id)
}

// FindByUsername retrieves a user by username
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

// Exists reports whether a user row with id exists
func (r *UserRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE user_id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check user exists: %w", err)
	}
	return exists, nil
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg any) (*user.User, error) {
	var (
		id        int64
		p         user.Profile
		hash      string
		createdAt time.Time
	)

	err := r.db.QueryRow(ctx, query, arg).Scan(
		&id, &p.Username, &p.FirstName, &p.LastName, &p.Country, &p.Email, &hash, &createdAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, user.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}

	return user.Reconstruct(id, p, hash, createdAt), nil
}
