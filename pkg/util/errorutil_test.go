package util

import (
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, MapError(nil))
	})

	t.Run("no rows maps to not found", func(t *testing.T) {
		err := MapError(pgx.ErrNoRows)
		assert.Error(t, err)
		assert.Equal(t, "NOT_FOUND", ToDomainError(err).Code)
	})

	t.Run("unknown error maps to internal", func(t *testing.T) {
		err := MapError(assert.AnError)
		assert.Error(t, err)
		assert.Equal(t, "INTERNAL_ERROR", ToDomainError(err).Code)
	})

	t.Run("domain error passes through", func(t *testing.T) {
		err := MapError(NewConflict("already assigned", nil))
		assert.Equal(t, "CONFLICT", ToDomainError(err).Code)
	})
}
