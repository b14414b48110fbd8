package apperr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPersistenceKeepsBothChains(t *testing.T) {
	driverErr := errors.New("connection reset")
	err := Persistence("insert sale", driverErr)

	assert.ErrorIs(t, err, ErrPersistence)
	assert.ErrorIs(t, err, driverErr)
	assert.Contains(t, err.Error(), "insert sale")
}

func TestPersistenceNil(t *testing.T) {
	assert.NoError(t, Persistence("noop", nil))
}

func TestKinds(t *testing.T) {
	assert.ErrorIs(t, Conflict("barcode %q already used", "123"), ErrConflict)
	assert.ErrorIs(t, Invalid("name is required"), ErrValidation)
	assert.ErrorIs(t, NotFound("product", 7), ErrNotFound)
	assert.NotErrorIs(t, NotFound("product", 7), ErrConflict)
}
