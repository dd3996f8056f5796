package apierr

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roomsync/roomsync/internal/model"
)

func TestWriteErrorStoreUnavailable(t *testing.T) {
	rr := httptest.NewRecorder()

	WriteError(rr, model.ErrStoreUnavailable)

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Contains(t, rr.Body.String(), CodeStoreUnavailable)
}

func TestWriteErrorUnwrapsStoreFailures(t *testing.T) {
	// Storage backends wrap the sentinel with backend detail
	rr := httptest.NewRecorder()

	WriteError(rr, fmt.Errorf("%w: dial tcp: connection refused", model.ErrStoreUnavailable))

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Contains(t, rr.Body.String(), CodeStoreUnavailable)
}

func TestWriteErrorUnknownErrorIsInternal(t *testing.T) {
	rr := httptest.NewRecorder()

	WriteError(rr, fmt.Errorf("something else entirely"))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), CodeInternalError)
}
