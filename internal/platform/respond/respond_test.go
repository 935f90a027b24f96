package respond

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"huellitas/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var b errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &b))
	return b
}

func TestError_HidesPersistenceDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, apperr.Wrap(apperr.KindPersistence, errors.New("dial tcp 10.0.0.5:5432: connection refused"), "insert pet"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	b := decodeBody(t, rec)
	assert.Equal(t, apperr.KindPersistence, b.Error)
	assert.Equal(t, "internal error", b.Message)
}

func TestError_KeepsMessageForClientKinds(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, apperr.New(apperr.KindWeakCredential, "password must have at least 6 characters"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	b := decodeBody(t, rec)
	assert.Equal(t, apperr.KindWeakCredential, b.Error)
	assert.Contains(t, b.Message, "at least 6 characters")
}
