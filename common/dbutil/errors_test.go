package dbutil

import (
	"fmt"
	"io"
	"testing"

	"github.com/Aidin1998/finalex-ids/pkg/errors"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestWrapError(t *testing.T) {
	assert.NoError(t, WrapError(nil))

	notFound := WrapError(gorm.ErrRecordNotFound)
	assert.True(t, errors.Is(notFound, errors.NotFound))
	assert.True(t, errors.Is(notFound, gorm.ErrRecordNotFound))

	dup := WrapError(fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey))
	assert.True(t, errors.Is(dup, errors.Conflict))

	pgDup := WrapError(&pgconn.PgError{Code: DuplicateKeyErrorCode, Message: "duplicate key value"})
	assert.True(t, errors.Is(pgDup, errors.Conflict))

	pgOther := &pgconn.PgError{Code: "40001"}
	assert.Same(t, pgOther, WrapError(pgOther))

	kinded := errors.Invalid.Explain("bad")
	assert.Same(t, kinded, WrapError(kinded))

	assert.Equal(t, io.EOF, WrapError(io.EOF))
}
