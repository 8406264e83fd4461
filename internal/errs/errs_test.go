// internal/errs/errs_test.go
package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindValidation, KindOf(Validation("bad input")))
	assert.Equal(t, KindNotFound, KindOf(NotFound("missing")))
	assert.Equal(t, KindConflict, KindOf(Conflict("already decided")))
	assert.Equal(t, KindAuthorization, KindOf(Authorization("not yours")))
	assert.Equal(t, KindDependency, KindOf(Dependency(errors.New("io"), "db down")))
}

func TestKindOfUnclassified(t *testing.T) {
	assert.Equal(t, KindDependency, KindOf(errors.New("plain")))
}

func TestKindSurvivesWrapping(t *testing.T) {
	wrapped := fmt.Errorf("while deciding: %w", Conflict("already decided"))
	assert.True(t, IsKind(wrapped, KindConflict))
	assert.Equal(t, "already decided", MessageOf(wrapped))
}

func TestIsKindNil(t *testing.T) {
	assert.False(t, IsKind(nil, KindValidation))
}

func TestMessageOf(t *testing.T) {
	assert.Equal(t, "only 6 available", MessageOf(Validation("only %s available", "6")))
	assert.Equal(t, "plain", MessageOf(errors.New("plain")))
	assert.Equal(t, "", MessageOf(nil))
}

func TestDependencyUnwraps(t *testing.T) {
	cause := errors.New("connection refused")
	err := Dependency(cause, "failed to load listing")
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "failed to load listing")
}
