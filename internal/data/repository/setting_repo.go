package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"computer-booking/internal/data/entity"
	"computer-booking/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type SettingRepository interface {
	Get(ctx context.Context, key string) (*entity.Setting, error)
	// GetInt returns def when the key is missing or not a positive integer.
	GetInt(ctx context.Context, key string, def int) (int, error)
	Set(ctx context.Context, key, value string) error
}

type settingRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewSettingRepository(db database.Querier, log *zap.Logger) SettingRepository {
	return &settingRepository{
		db:  db,
		log: log.With(zap.String("repository", "setting")),
	}
}

func (r *settingRepository) Get(ctx context.Context, key string) (*entity.Setting, error) {
	query := `SELECT key, value FROM settings WHERE key = $1`

	var setting entity.Setting
	err := r.db.QueryRow(ctx, query, key).Scan(&setting.Key, &setting.Value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to get setting",
			zap.Error(err),
			zap.String("key", key),
		)
		return nil, fmt.Errorf("get setting %s: %w", key, err)
	}

	return &setting, nil
}

func (r *settingRepository) GetInt(ctx context.Context, key string, def int) (int, error) {
	setting, err := r.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	if setting == nil {
		return def, nil
	}

	value, err := strconv.Atoi(setting.Value)
	if err != nil || value <= 0 {
		r.log.Warn("Ignoring invalid integer setting",
			zap.String("key", key),
			zap.String("value", setting.Value),
			zap.Int("default", def),
		)
		return def, nil
	}

	return value, nil
}

func (r *settingRepository) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO settings (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`

	if _, err := r.db.Exec(ctx, query, key, value); err != nil {
		r.log.Error("Failed to set setting",
			zap.Error(err),
			zap.String("key", key),
		)
		return fmt.Errorf("set setting %s: %w", key, err)
	}

	return nil
}
