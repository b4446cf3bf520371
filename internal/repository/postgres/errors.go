package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ktmouk/minute-sub000/internal/domain"
)

// SQLSTATE codes the repositories translate
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeInvalidText         = "22P02" // e.g. a malformed uuid literal
)

// wrapError maps a driver error onto the domain sentinels.
//
// subject names the row the statement reads or writes, reference names the
// row a foreign key points at. A missing or malformed reference reports
// ErrNotFound against reference; anything unclassified is wrapped with op.
func wrapError(err error, op, subject, reference string) error {
	if reference == "" {
		reference = subject
	}

	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return fmt.Errorf("%s: %w", subject, domain.ErrNotFound)
	case pgErrorCode(err) == codeUniqueViolation:
		return fmt.Errorf("%s: %w", subject, domain.ErrConflict)
	case pgErrorCode(err) == codeForeignKeyViolation, pgErrorCode(err) == codeInvalidText:
		return fmt.Errorf("%s: %w", reference, domain.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
