package repository

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	apperrors "github.com/spec-kit/lead-service/pkg/util"
)

const (
	pgInvalidTextRepresentation = "22P02"
	pgCheckViolation            = "23514"
	pgUniqueViolation           = "23505"
)

// ErrDuplicate is returned when a unique constraint rejects an insert.
var ErrDuplicate = errors.New("record already exists")

// mapError converts driver errors into domain errors. A malformed id can never
// match a row, so it is reported as not found.
func mapError(err error, resource, id string) error {
	if err == nil {
		return nil
	}
	var derr *apperrors.DomainError
	if errors.As(err, &derr) {
		return err
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound(resource, map[string]any{"id": id})
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgInvalidTextRepresentation:
			return apperrors.NewNotFound(resource, map[string]any{"id": id})
		case pgCheckViolation:
			return apperrors.NewValidationError("Invalid value", map[string]string{pgErr.ConstraintName: pgErr.Message})
		case pgUniqueViolation:
			return ErrDuplicate
		}
	}
	return apperrors.NewStorageError(err)
}
