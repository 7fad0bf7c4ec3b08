package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsDuplicateKey_GormSentinel(t *testing.T) {
	assert.True(t, isDuplicateKey(gorm.ErrDuplicatedKey))
	assert.True(t, isDuplicateKey(fmt.Errorf("create vote: %w", gorm.ErrDuplicatedKey)))
}

func TestIsDuplicateKey_RawPostgresError(t *testing.T) {
	// An untranslated unique violation straight from the driver must still
	// be recognized, or a second vote surfaces as a 500
	uniqueViolation := &pgconn.PgError{
		Code:           "23505",
		ConstraintName: "idx_poll_votes_poll_voter",
	}
	assert.True(t, isDuplicateKey(uniqueViolation))
	assert.True(t, isDuplicateKey(fmt.Errorf("create vote: %w", uniqueViolation)))
}

func TestIsDuplicateKey_OtherErrors(t *testing.T) {
	assert.False(t, isDuplicateKey(nil))
	assert.False(t, isDuplicateKey(errors.New("connection refused")))
	assert.False(t, isDuplicateKey(gorm.ErrRecordNotFound))
	// A different SQLSTATE (foreign key violation) is not a duplicate vote
	assert.False(t, isDuplicateKey(&pgconn.PgError{Code: "23503"}))
}
