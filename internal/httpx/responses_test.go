package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcknowledge_JSON(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/new", nil)
	r.Header.Set("Accept", "application/json")
	r = r.WithContext(ContextWithRequestID(r.Context(), "req-9"))
	w := httptest.NewRecorder()

	Acknowledge(w, r, http.StatusUnprocessableEntity, "Invalid book details.", ErrorDetail{Field: "isbn", Message: "isbn is required"})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var ack Acknowledgment
	require.NoError(t, json.NewDecoder(w.Body).Decode(&ack))
	assert.False(t, ack.Success)
	assert.Equal(t, "Invalid book details.", ack.Message)
	assert.Equal(t, "/", ack.Redirect)
	assert.Equal(t, "req-9", ack.RequestID)
	assert.Equal(t, []ErrorDetail{{Field: "isbn", Message: "isbn is required"}}, ack.Details)
}

func TestAcknowledge_HTML(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/new", nil)
	w := httptest.NewRecorder()

	Acknowledge(w, r, http.StatusOK, `Book "<T>" added`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	body := w.Body.String()
	assert.Contains(t, body, `content="2;url=/"`)
	assert.Contains(t, body, "notice-success")
	assert.Contains(t, body, "&lt;T&gt;")
	assert.NotContains(t, body, "<script")
}
