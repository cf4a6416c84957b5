package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestErrorClassification(t *testing.T) {
	check := fmt.Errorf("insert: %w", &pgconn.PgError{Code: pgerrcode.CheckViolation})
	unique := &pgconn.PgError{Code: pgerrcode.UniqueViolation}
	other := errors.New("connection reset")

	assert.True(t, IsConstraintViolation(check))
	assert.False(t, IsConstraintViolation(unique))
	assert.False(t, IsConstraintViolation(other))

	assert.True(t, IsUniqueViolation(unique))
	assert.False(t, IsUniqueViolation(check))
}
