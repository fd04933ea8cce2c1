package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"projectpulse/backend/internal/apperr"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{apperr.Validation("bad input"), http.StatusBadRequest},
		{apperr.Forbidden("no"), http.StatusForbidden},
		{apperr.NotFound("gone"), http.StatusNotFound},
		{apperr.Conflict("already closed"), http.StatusConflict},
		{apperr.Storage(errors.New("boom"), "commit"), http.StatusInternalServerError},
		{errors.New("unclassified"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, apperr.HTTPStatus(tt.err))
	}
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("handling request: %w", apperr.Conflict("complaint is CLOSED"))
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	assert.Equal(t, http.StatusConflict, apperr.HTTPStatus(err))
}

func TestUserMessageHidesStorageDetail(t *testing.T) {
	cause := errors.New("pq: connection refused")
	err := apperr.Storage(cause, "save complaint")

	assert.Equal(t, "internal error", apperr.UserMessage(err))
	// The cause stays reachable for logs.
	assert.ErrorIs(t, err, cause)
}

func TestUserMessageForUserFacingKinds(t *testing.T) {
	assert.Equal(t, "title is required", apperr.UserMessage(apperr.Validation("title is required")))
	assert.Equal(t, "internal error", apperr.UserMessage(errors.New("raw")))
}

func TestErrorString(t *testing.T) {
	assert.Equal(t, "not_found: complaint c1 not found", apperr.NotFound("complaint %s not found", "c1").Error())
	assert.Contains(t, apperr.Storage(errors.New("boom"), "commit").Error(), "boom")
}
