// Copyright (c) 2026 Agora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/agora/internal/platform/apperr"
)

/*
TestConstructors_StatusMapping pins the taxonomy to HTTP status codes so the
boundary mapping stays mechanical.
*/
func TestConstructors_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    *apperr.AppError
		status int
		code   string
	}{
		{"invalid_argument", apperr.InvalidArgument("bad"), http.StatusBadRequest, apperr.CodeInvalidArgument},
		{"validation", apperr.ValidationError("bad"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"unauthorized", apperr.Unauthorized("no"), http.StatusUnauthorized, "UNAUTHORIZED"},
		{"forbidden", apperr.Forbidden("no"), http.StatusForbidden, "FORBIDDEN"},
		{"not_found", apperr.NotFound("Topic"), http.StatusNotFound, apperr.CodeNotFound},
		{"conflict", apperr.Conflict("dup"), http.StatusConflict, "CONFLICT"},
		{"rate_limited", apperr.RateLimited(3), http.StatusTooManyRequests, "RATE_LIMITED"},
		{"internal", apperr.Internal(errors.New("boom")), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.HTTPStatus)
			assert.Equal(t, tt.code, tt.err.Code)
		})
	}
}

/*
TestInternal_HidesCause ensures the client-facing message never leaks the cause.
*/
func TestInternal_HidesCause(t *testing.T) {
	cause := errors.New("pq: relation does not exist")
	err := apperr.Internal(cause)

	assert.NotContains(t, err.Error(), "relation")
	assert.ErrorIs(t, err, cause)
}

/*
TestAs_WrappedChain verifies extraction through fmt.Errorf wrapping.
*/
func TestAs_WrappedChain(t *testing.T) {
	wrapped := fmt.Errorf("topic_service_get_failed: %w", apperr.NotFound("Topic"))

	ae := apperr.As(wrapped)
	require.NotNil(t, ae)
	assert.Equal(t, "Topic not found", ae.Message)
	assert.True(t, apperr.IsNotFound(wrapped))

	assert.Nil(t, apperr.As(errors.New("plain")))
	assert.False(t, apperr.IsNotFound(apperr.Conflict("dup")))
}

func TestRateLimited_RetryAfter(t *testing.T) {
	assert.Equal(t, 30, apperr.RateLimited(30).RetryAfterSeconds)
	assert.Equal(t, 1, apperr.RateLimited(0).RetryAfterSeconds)
	assert.Contains(t, apperr.RateLimited(0).Message, "1s")
}

func TestNew_UnknownCodeIsServerError(t *testing.T) {
	err := apperr.New("TEAPOT", "short and stout")
	assert.Equal(t, http.StatusInternalServerError, err.HTTPStatus)
	assert.True(t, apperr.Is(err, "TEAPOT"))
	assert.False(t, apperr.Is(nil, "TEAPOT"))
}
