package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	sqlStateUniqueViolation    = "23505"
	sqlStateExclusionViolation = "23P01"
)

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func isUniqueViolation(err error) bool {
	return err != nil && pgErrorCode(err) == sqlStateUniqueViolation
}

func isExclusionViolation(err error) bool {
	return err != nil && pgErrorCode(err) == sqlStateExclusionViolation
}
