package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloneMatchesPredefined(t *testing.T) {
	err := Clone(ErrNotRegistered, "user 555 is not registered")

	assert.True(t, stderrors.Is(err, ErrNotRegistered))
	assert.False(t, stderrors.Is(err, ErrNotFound))
	assert.Equal(t, "user 555 is not registered", err.Message)
	assert.Equal(t, "user is not registered", ErrNotRegistered.Message)
}

func TestWrapKeepsCause(t *testing.T) {
	cause := fmt.Errorf("dial tcp: refused")
	err := Wrap(cause, ErrRemoteUnavailable.Code, http.StatusInternalServerError, "catalog unavailable")

	assert.True(t, stderrors.Is(err, ErrRemoteUnavailable))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "catalog unavailable: dial tcp: refused", err.Error())
}

func TestFromErrorNormalisesForeignErrors(t *testing.T) {
	assert.Nil(t, FromError(nil))

	appErr := FromError(fmt.Errorf("boom"))
	require.NotNil(t, appErr)
	assert.Equal(t, ErrInternal.Code, appErr.Code)

	wrapped := fmt.Errorf("context: %w", Clone(ErrDataIntegrity, "region 9 missing"))
	assert.Equal(t, ErrDataIntegrity.Code, FromError(wrapped).Code)
}

func TestWithStatusAndStatusOf(t *testing.T) {
	err := WithStatus(ErrRemoteUnavailable, http.StatusUnauthorized, "bad key")

	assert.Equal(t, http.StatusUnauthorized, StatusOf(err))
	assert.Equal(t, http.StatusBadGateway, ErrRemoteUnavailable.Status)
	assert.Equal(t, 0, StatusOf(fmt.Errorf("plain")))
}
