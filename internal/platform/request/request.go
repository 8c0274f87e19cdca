// Copyright (c) 2026 Agora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package requestutil reads path parameters, JSON bodies, and the caller
// identity out of an *http.Request.
package requestutil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/agora/internal/platform/apperr"
	"github.com/taibuivan/agora/internal/platform/ctxutil"
	"github.com/taibuivan/agora/internal/platform/validate"
)

// maxBodyBytes bounds every JSON body; a full-length post fits comfortably.
const maxBodyBytes = 1 << 20

/*
DecodeJSON strictly decodes one JSON value from the body into target.

Unknown fields, trailing data, and bodies over the size cap all yield
[validate.ErrInvalidJSON].
*/
func DecodeJSON(request *http.Request, target any) error {
	decoder := json.NewDecoder(io.LimitReader(request.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return validate.ErrInvalidJSON
	}
	return nil
}

// Param returns the chi URL parameter name.
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

// RequiredUserID returns the authenticated caller's ID or a 401 error.
func RequiredUserID(request *http.Request) (string, error) {
	userID := ctxutil.GetUserID(request.Context())
	if userID == "" {
		return "", apperr.Unauthorized("Authentication required")
	}
	return userID, nil
}
