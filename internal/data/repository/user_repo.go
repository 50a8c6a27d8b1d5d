package repository

import (
	"context"
	"errors"
	"fmt"

	"computer-booking/internal/data/entity"
	"computer-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

var ErrUsernameTaken = errors.New("username already exists")

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	// FindByIDForUpdate locks the user row until the surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error

	// Administration
	List(ctx context.Context) ([]*entity.User, error)
	// Update writes the profile fields; false means no such user.
	Update(ctx context.Context, user *entity.User) (bool, error)
	SetBanned(ctx context.Context, id uuid.UUID, banned bool) (bool, error)
	// Delete removes the user with their bookings and sessions.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type userRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewUserRepository(db database.Querier, log *zap.Logger) UserRepository {
	return &userRepository{
		db:  db,
		log: log.With(zap.String("repository", "user")),
	}
}

const userColumns = `id, username, password_hash, fullname, email, role,
		       group_name, max_concurrent_bookings, created_at, banned`

func scanUser(row scanner) (*entity.User, error) {
	var user entity.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.Fullname,
		&user.Email,
		&user.Role,
		&user.GroupName,
		&user.MaxConcurrentBookings,
		&user.CreatedAt,
		&user.Banned,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts a new user record into the database
func (ur *userRepository) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (id, username, password_hash, fullname, email, role,
		                   group_name, max_concurrent_bookings, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := ur.db.Exec(ctx, query,
		user.ID,
		user.Username,
		user.PasswordHash,
		user.Fullname,
		user.Email,
		user.Role,
		user.GroupName,
		user.MaxConcurrentBookings,
		user.CreatedAt,
	)

	if isUniqueViolation(err) {
		return ErrUsernameTaken
	}
	if err != nil {
		ur.log.Error("Failed to create user",
			zap.Error(err),
			zap.String("username", user.Username),
		)
		return fmt.Errorf("create user %s: %w", user.Username, err)
	}

	return nil
}

func (ur *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return ur.findByID(ctx, id, false)
}

func (ur *userRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return ur.findByID(ctx, id, true)
}

func (ur *userRepository) findByID(ctx context.Context, id uuid.UUID, forUpdate bool) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	user, err := scanUser(ur.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		ur.log.Error("Failed to find user by ID",
			zap.Error(err),
			zap.String("user_id", id.String()),
		)
		return nil, fmt.Errorf("find user by ID %s: %w", id.String(), err)
	}

	return user, nil
}

func (ur *userRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	user, err := scanUser(ur.db.QueryRow(ctx, query, username))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		ur.log.Error("Failed to find user by username",
			zap.Error(err),
			zap.String("username", username),
		)
		return nil, fmt.Errorf("find user by username %s: %w", username, err)
	}

	return user, nil
}

func (ur *userRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	query := `UPDATE users SET password_hash = $2 WHERE id = $1`

	result, err := ur.db.Exec(ctx, query, id, passwordHash)
	if err != nil {
		ur.log.Error("Failed to update password",
			zap.Error(err),
			zap.String("user_id", id.String()),
		)
		return fmt.Errorf("update password %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s not found", id.String())
	}

	return nil
}

func (ur *userRepository) List(ctx context.Context) ([]*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`

	rows, err := ur.db.Query(ctx, query)
	if err != nil {
		ur.log.Error("Failed to list users", zap.Error(err))
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []*entity.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			ur.log.Error("Failed to scan user row", zap.Error(err))
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		ur.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate user rows: %w", err)
	}

	return users, nil
}

func (ur *userRepository) Update(ctx context.Context, user *entity.User) (bool, error) {
	query := `
		UPDATE users
		SET fullname = $2, email = $3, role = $4, group_name = $5,
		    max_concurrent_bookings = $6, banned = $7
		WHERE id = $1
	`

	result, err := ur.db.Exec(ctx, query,
		user.ID,
		user.Fullname,
		user.Email,
		user.Role,
		user.GroupName,
		user.MaxConcurrentBookings,
		user.Banned,
	)
	if err != nil {
		ur.log.Error("Failed to update user",
			zap.Error(err),
			zap.String("user_id", user.ID.String()),
		)
		return false, fmt.Errorf("update user %s: %w", user.ID.String(), err)
	}

	return result.RowsAffected() > 0, nil
}

func (ur *userRepository) SetBanned(ctx context.Context, id uuid.UUID, banned bool) (bool, error) {
	query := `UPDATE users SET banned = $2 WHERE id = $1`

	result, err := ur.db.Exec(ctx, query, id, banned)
	if err != nil {
		ur.log.Error("Failed to set banned flag",
			zap.Error(err),
			zap.String("user_id", id.String()),
			zap.Bool("banned", banned),
		)
		return false, fmt.Errorf("set banned %s: %w", id.String(), err)
	}

	return result.RowsAffected() > 0, nil
}

func (ur *userRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `DELETE FROM users WHERE id = $1`

	result, err := ur.db.Exec(ctx, query, id)
	if err != nil {
		ur.log.Error("Failed to delete user",
			zap.Error(err),
			zap.String("user_id", id.String()),
		)
		return false, fmt.Errorf("delete user %s: %w", id.String(), err)
	}

	return result.RowsAffected() > 0, nil
}
