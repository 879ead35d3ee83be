package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyTxError(t *testing.T) {
	cases := []struct {
		name     string
		code     string
		conflict bool
	}{
		{"serialization failure", "40001", true},
		{"deadlock detected", "40P01", true},
		{"lock not available", "55P03", true},
		{"unique violation", "23505", false},
		{"check violation", "23514", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pgErr := &pgconn.PgError{Code: tc.code, Message: tc.name}
			err := classifyTxError(pgErr)
			require.Error(t, err)
			assert.Equal(t, tc.conflict, errors.Is(err, ErrStoreConflict))
			if tc.conflict {
				// The original failure detail must survive the wrap
				assert.Contains(t, err.Error(), tc.name)
			} else {
				// Non-retryable errors pass through untouched
				assert.Same(t, pgErr, err)
			}
		})
	}
}

func TestClassifyTxError_WrappedPgError(t *testing.T) {
	// gorm surfaces driver errors wrapped; classification must see through.
	inner := &pgconn.PgError{Code: "40001"}
	err := classifyTxError(fmt.Errorf("commit failed: %w", inner))
	assert.ErrorIs(t, err, ErrStoreConflict)
}

func TestClassifyTxError_PassThrough(t *testing.T) {
	assert.NoError(t, classifyTxError(nil))

	plain := errors.New("fn rejected the scope")
	assert.Same(t, plain, classifyTxError(plain))

	notFound := &NotFoundError{Entity: "product", Ref: "x"}
	var target *NotFoundError
	assert.ErrorAs(t, classifyTxError(notFound), &target)
}
