package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"computer-booking/internal/data/entity"
	"computer-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

var ErrComputerNameTaken = errors.New("computer name already exists")

type ComputerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Computer, error)
	// FindByIDForUpdate locks the computer row, serialising bookings on it.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Computer, error)
	FindAllWithAvailability(ctx context.Context, now time.Time) ([]*entity.ComputerAvailability, error)

	// Administration
	List(ctx context.Context) ([]*entity.Computer, error)
	Create(ctx context.Context, computer *entity.Computer) error
	// Update writes every editable field; false means no such computer.
	Update(ctx context.Context, computer *entity.Computer) (bool, error)
	// Delete removes the computer with its bookings and sessions.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type computerRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewComputerRepository(db database.Querier, log *zap.Logger) ComputerRepository {
	return &computerRepository{
		db:  db,
		log: log.With(zap.String("repository", "computer")),
	}
}

const computerColumns = `id, name, description, location, status, ip_address, mac_address, created_at`

func scanComputer(row scanner) (*entity.Computer, error) {
	var c entity.Computer
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Description,
		&c.Location,
		&c.Status,
		&c.IPAddress,
		&c.MACAddress,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *computerRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Computer, error) {
	return r.findByID(ctx, id, false)
}

func (r *computerRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Computer, error) {
	return r.findByID(ctx, id, true)
}

func (r *computerRepository) findByID(ctx context.Context, id uuid.UUID, forUpdate bool) (*entity.Computer, error) {
	query := `
		SELECT ` + computerColumns + `
		FROM computers
		WHERE id = $1
	`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	c, err := scanComputer(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find computer by ID",
			zap.Error(err),
			zap.String("computer_id", id.String()),
		)
		return nil, fmt.Errorf("find computer by ID %s: %w", id.String(), err)
	}

	return c, nil
}

// FindAllWithAvailability lists every computer with its booking flags at now.
func (r *computerRepository) FindAllWithAvailability(ctx context.Context, now time.Time) ([]*entity.ComputerAvailability, error) {
	query := `
		SELECT c.id, c.name, c.description, c.location, c.status,
		       c.ip_address, c.mac_address, c.created_at,
		       EXISTS (
		           SELECT 1 FROM bookings b
		           WHERE b.computer_id = c.id
		             AND b.status IN ('pending', 'active')
		             AND b.start_time <= $1 AND b.end_time > $1
		       ) AS is_currently_booked,
		       EXISTS (
		           SELECT 1 FROM bookings b
		           JOIN sessions s ON s.booking_id = b.id
		           WHERE b.computer_id = c.id
		             AND b.status = 'active'
		             AND s.status = 'unlocked'
		             AND b.start_time <= $1 AND b.end_time > $1
		       ) AS is_currently_in_use,
		       EXISTS (
		           SELECT 1 FROM bookings b
		           WHERE b.computer_id = c.id
		             AND b.status = 'pending'
		             AND b.start_time > $1
		       ) AS is_booked_future
		FROM computers c
		ORDER BY c.name
	`

	rows, err := r.db.Query(ctx, query, now)
	if err != nil {
		r.log.Error("Failed to list computers", zap.Error(err))
		return nil, fmt.Errorf("list computers: %w", err)
	}
	defer rows.Close()

	var computers []*entity.ComputerAvailability
	for rows.Next() {
		var c entity.ComputerAvailability
		err := rows.Scan(
			&c.ID,
			&c.Name,
			&c.Description,
			&c.Location,
			&c.Status,
			&c.IPAddress,
			&c.MACAddress,
			&c.CreatedAt,
			&c.IsCurrentlyBooked,
			&c.IsCurrentlyInUse,
			&c.IsBookedFuture,
		)
		if err != nil {
			r.log.Error("Failed to scan computer row", zap.Error(err))
			return nil, fmt.Errorf("scan computer row: %w", err)
		}
		computers = append(computers, &c)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate computer rows: %w", err)
	}

	return computers, nil
}

func (r *computerRepository) List(ctx context.Context) ([]*entity.Computer, error) {
	query := `SELECT ` + computerColumns + ` FROM computers ORDER BY name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to list computers", zap.Error(err))
		return nil, fmt.Errorf("list computers: %w", err)
	}
	defer rows.Close()

	var computers []*entity.Computer
	for rows.Next() {
		c, err := scanComputer(rows)
		if err != nil {
			r.log.Error("Failed to scan computer row", zap.Error(err))
			return nil, fmt.Errorf("scan computer row: %w", err)
		}
		computers = append(computers, c)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate computer rows: %w", err)
	}

	return computers, nil
}

func (r *computerRepository) Create(ctx context.Context, computer *entity.Computer) error {
	query := `
		INSERT INTO computers (id, name, description, location, status, ip_address, mac_address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		computer.ID,
		computer.Name,
		computer.Description,
		computer.Location,
		computer.Status,
		computer.IPAddress,
		computer.MACAddress,
		computer.CreatedAt,
	)

	if isUniqueViolation(err) {
		return ErrComputerNameTaken
	}
	if err != nil {
		r.log.Error("Failed to create computer",
			zap.Error(err),
			zap.String("name", computer.Name),
		)
		return fmt.Errorf("create computer %s: %w", computer.Name, err)
	}

	return nil
}

func (r *computerRepository) Update(ctx context.Context, computer *entity.Computer) (bool, error) {
	query := `
		UPDATE computers
		SET name = $2, description = $3, location = $4, status = $5,
		    ip_address = $6, mac_address = $7
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		computer.ID,
		computer.Name,
		computer.Description,
		computer.Location,
		computer.Status,
		computer.IPAddress,
		computer.MACAddress,
	)

	if isUniqueViolation(err) {
		return false, ErrComputerNameTaken
	}
	if err != nil {
		r.log.Error("Failed to update computer",
			zap.Error(err),
			zap.String("computer_id", computer.ID.String()),
		)
		return false, fmt.Errorf("update computer %s: %w", computer.ID.String(), err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *computerRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `DELETE FROM computers WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete computer",
			zap.Error(err),
			zap.String("computer_id", id.String()),
		)
		return false, fmt.Errorf("delete computer %s: %w", id.String(), err)
	}

	return result.RowsAffected() > 0, nil
}
