package repository

import (
	"context"
	"testing"
	"time"

	"computer-booking/internal/data/entity"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var computerCols = []string{"id", "name", "description", "location", "status", "ip_address", "mac_address", "created_at"}

func TestComputerCreate_NameTaken(t *testing.T) {
	mock, repo := newMockRepository(t)
	location := "Lab 2"
	computer := &entity.Computer{
		Base:     entity.Base{ID: uuid.New(), CreatedAt: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)},
		Name:     "PC-01",
		Location: &location,
		Status:   entity.ComputerStatusAvailable,
	}

	mock.ExpectExec("INSERT INTO computers").
		WithArgs(computer.ID, "PC-01", (*string)(nil), &location, entity.ComputerStatusAvailable,
			(*string)(nil), (*string)(nil), computer.CreatedAt).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.Computer.Create(context.Background(), computer)

	assert.ErrorIs(t, err, ErrComputerNameTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestComputerList(t *testing.T) {
	mock, repo := newMockRepository(t)
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery("FROM computers ORDER BY name").
		WillReturnRows(pgxmock.NewRows(computerCols).
			AddRow(uuid.New(), "PC-01", (*string)(nil), (*string)(nil), entity.ComputerStatusAvailable, (*string)(nil), (*string)(nil), now).
			AddRow(uuid.New(), "PC-02", (*string)(nil), (*string)(nil), entity.ComputerStatusMaintenance, (*string)(nil), (*string)(nil), now))

	computers, err := repo.Computer.List(context.Background())

	require.NoError(t, err)
	require.Len(t, computers, 2)
	assert.Equal(t, entity.ComputerStatusMaintenance, computers[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestComputerUpdateAndDelete(t *testing.T) {
	mock, repo := newMockRepository(t)
	computer := &entity.Computer{
		Base:   entity.Base{ID: uuid.New()},
		Name:   "PC-01",
		Status: entity.ComputerStatusDisabled,
	}

	mock.ExpectExec("UPDATE computers").
		WithArgs(computer.ID, "PC-01", (*string)(nil), (*string)(nil), entity.ComputerStatusDisabled,
			(*string)(nil), (*string)(nil)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("DELETE FROM computers WHERE id = \\$1").
		WithArgs(computer.ID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	updated, err := repo.Computer.Update(context.Background(), computer)
	require.NoError(t, err)
	assert.True(t, updated)

	deleted, err := repo.Computer.Delete(context.Background(), computer.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
