package repository

import (
	"context"
	"errors"
	"fmt"

	"computer-booking/internal/data/entity"
	"computer-booking/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type GroupRepository interface {
	FindByName(ctx context.Context, name string) (*entity.GroupLimit, error)
	List(ctx context.Context) ([]*entity.GroupLimit, error)
	// Upsert creates or replaces the group's limits. A nil noShowMinutes keeps
	// the stored value, or the default for a new group. created reports an insert.
	Upsert(ctx context.Context, name string, maxBookings int, noShowMinutes *int) (group *entity.GroupLimit, created bool, err error)
}

type groupRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewGroupRepository(db database.Querier, log *zap.Logger) GroupRepository {
	return &groupRepository{
		db:  db,
		log: log.With(zap.String("repository", "group")),
	}
}

func (r *groupRepository) FindByName(ctx context.Context, name string) (*entity.GroupLimit, error) {
	query := `
		SELECT group_name, max_concurrent_bookings, no_show_minutes
		FROM group_limits
		WHERE group_name = $1
	`

	var group entity.GroupLimit
	err := r.db.QueryRow(ctx, query, name).Scan(
		&group.GroupName,
		&group.MaxConcurrentBookings,
		&group.NoShowMinutes,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find group",
			zap.Error(err),
			zap.String("group_name", name),
		)
		return nil, fmt.Errorf("find group %s: %w", name, err)
	}

	return &group, nil
}

func (r *groupRepository) List(ctx context.Context) ([]*entity.GroupLimit, error) {
	query := `
		SELECT group_name, max_concurrent_bookings, no_show_minutes
		FROM group_limits
		ORDER BY group_name
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to list groups", zap.Error(err))
		return nil, fmt.Errorf("list groups: %w", err)
	}
	defer rows.Close()

	var groups []*entity.GroupLimit
	for rows.Next() {
		var g entity.GroupLimit
		if err := rows.Scan(&g.GroupName, &g.MaxConcurrentBookings, &g.NoShowMinutes); err != nil {
			r.log.Error("Failed to scan group row", zap.Error(err))
			return nil, fmt.Errorf("scan group row: %w", err)
		}
		groups = append(groups, &g)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate group rows: %w", err)
	}

	return groups, nil
}

func (r *groupRepository) Upsert(ctx context.Context, name string, maxBookings int, noShowMinutes *int) (*entity.GroupLimit, bool, error) {
	// xmax is zero only on a freshly inserted row version.
	query := `
		INSERT INTO group_limits (group_name, max_concurrent_bookings, no_show_minutes)
		VALUES ($1, $2, COALESCE($3::int, $4::int))
		ON CONFLICT (group_name) DO UPDATE
		SET max_concurrent_bookings = EXCLUDED.max_concurrent_bookings,
		    no_show_minutes = COALESCE($3::int, group_limits.no_show_minutes)
		RETURNING group_name, max_concurrent_bookings, no_show_minutes, (xmax = 0) AS inserted
	`

	var (
		group   entity.GroupLimit
		created bool
	)
	err := r.db.QueryRow(ctx, query, name, maxBookings, noShowMinutes, entity.DefaultNoShowMinutes).Scan(
		&group.GroupName,
		&group.MaxConcurrentBookings,
		&group.NoShowMinutes,
		&created,
	)
	if err != nil {
		r.log.Error("Failed to upsert group",
			zap.Error(err),
			zap.String("group_name", name),
		)
		return nil, false, fmt.Errorf("upsert group %s: %w", name, err)
	}

	return &group, created, nil
}
