package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/ktmouk/minute-sub000/internal/domain"
)

func TestWrapError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		reference string
		sentinel  error
		message   string
	}{
		{
			name:     "no rows",
			err:      pgx.ErrNoRows,
			sentinel: domain.ErrNotFound,
			message:  "folder f1: not found",
		},
		{
			name:     "unique violation",
			err:      &pgconn.PgError{Code: codeUniqueViolation},
			sentinel: domain.ErrConflict,
			message:  "folder f1: ",
		},
		{
			name:      "foreign key violation",
			err:       fmt.Errorf("exec: %w", &pgconn.PgError{Code: codeForeignKeyViolation}),
			reference: "parent folder",
			sentinel:  domain.ErrNotFound,
			message:   "parent folder: ",
		},
		{
			name:     "malformed uuid on read",
			err:      &pgconn.PgError{Code: codeInvalidText},
			sentinel: domain.ErrNotFound,
			message:  "folder f1: ",
		},
		{
			name:      "malformed uuid reference",
			err:       &pgconn.PgError{Code: codeInvalidText},
			reference: "parent folder",
			sentinel:  domain.ErrNotFound,
			message:   "parent folder: ",
		},
		{
			name:    "unclassified",
			err:     errors.New("connection reset"),
			message: "create folder: connection reset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := wrapError(tt.err, "create folder", "folder f1", tt.reference)

			if tt.sentinel != nil {
				assert.ErrorIs(t, err, tt.sentinel)
			} else {
				assert.NotErrorIs(t, err, domain.ErrNotFound)
				assert.ErrorIs(t, err, tt.err)
			}
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}
