package repository

import (
	"context"
	"errors"
	"fmt"

	"computer-booking/pkg/database"

	"go.uber.org/zap"
)

var ErrNestedTx = errors.New("repository: transaction already in progress")

type Repository struct {
	db  database.PgxIface
	log *zap.Logger

	User     UserRepository
	Group    GroupRepository
	Computer ComputerRepository
	Setting  SettingRepository
	Booking  BookingRepository
	Session  SessionRepository
	Report   ReportRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	r := newRepository(db, log)
	r.db = db
	return r
}

func newRepository(q database.Querier, log *zap.Logger) *Repository {
	return &Repository{
		log:      log,
		User:     NewUserRepository(q, log),
		Group:    NewGroupRepository(q, log),
		Computer: NewComputerRepository(q, log),
		Setting:  NewSettingRepository(q, log),
		Booking:  NewBookingRepository(q, log),
		Session:  NewSessionRepository(q, log),
		Report:   NewReportRepository(q, log),
	}
}

// WithTx runs fn against repositories bound to a single transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
func (r *Repository) WithTx(ctx context.Context, fn func(tx *Repository) error) (err error) {
	if r.db == nil {
		return ErrNestedTx
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.log.Error("Failed to begin transaction", zap.Error(err))
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(newRepository(tx, r.log)); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			r.log.Error("Failed to rollback transaction", zap.Error(rbErr))
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		r.log.Error("Failed to commit transaction", zap.Error(err))
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// Ping checks the underlying connection.
func (r *Repository) Ping(ctx context.Context) error {
	if r.db == nil {
		return ErrNestedTx
	}
	return r.db.Ping(ctx)
}

type scanner interface {
	Scan(dest ...any) error
}
