package postgres

import (
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oksasatya/task-manager-api/internal/domain/errs"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgInvalidText         = "22P02"
)

// mapError translates driver errors into domain error kinds.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return errs.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return errs.ErrConflict
		case pgForeignKeyViolation, pgInvalidText:
			return errs.ErrNotFound
		}
	}
	return err
}

// validID guards uuid columns; a malformed id can never match a row.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
