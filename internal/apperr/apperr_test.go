package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIs_MatchesByKind(t *testing.T) {
	err := New(KindNotFound, "pet not found")
	wrapped := fmt.Errorf("load pet: %w", err)

	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.False(t, errors.Is(wrapped, ErrInvalidInput))
}

func TestWrap_KeepsExistingKind(t *testing.T) {
	inner := New(KindPermissionDenied, "not the owner")
	err := Wrap(KindPersistence, inner, "delete post")

	assert.Equal(t, KindPermissionDenied, KindOf(err))
}

func TestNormalize_UnknownBecomesPersistence(t *testing.T) {
	err := Normalize(errors.New("connection reset"))

	assert.Equal(t, KindPersistence, KindOf(err))
	assert.Contains(t, err.Error(), "connection reset")
	assert.Nil(t, Normalize(nil))
}

func TestFromHTTP_RoundTripsKind(t *testing.T) {
	for _, k := range []Kind{KindRateLimited, KindDuplicateAccount, KindWeakCredential, KindBadCredential} {
		err := FromHTTP(HTTPStatus(k), string(k), "x")
		assert.Equal(t, k, KindOf(err))
	}

	err := FromHTTP(http.StatusNotFound, "", "")
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Equal(t, "Not Found", err.Error())
}
