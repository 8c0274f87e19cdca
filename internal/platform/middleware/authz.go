// Copyright (c) 2026 Agora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/taibuivan/agora/internal/platform/apperr"
	"github.com/taibuivan/agora/internal/platform/ctxutil"
	"github.com/taibuivan/agora/internal/platform/respond"
	"github.com/taibuivan/agora/internal/platform/sec"
)

// # Authentication

// TokenVerifier turns a bearer token into claims. [sec.TokenService] is the
// production implementation.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*sec.AuthClaims, error)
}

// bearerToken splits an Authorization header value. ok is false when the
// scheme is not Bearer or the token part is missing.
func bearerToken(header string) (token string, ok bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != "" && !strings.ContainsAny(token, " \t")
}

/*
Authenticate resolves the caller from the Authorization header.

Requests without the header pass through anonymously. A header that is
present but malformed, or a token that fails verification, ends the request
with 401 so clients notice a stale token instead of silently losing identity.
*/
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			header := request.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(writer, request)
				return
			}

			token, ok := bearerToken(header)
			if !ok {
				respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				ctxutil.GetLogger(request.Context()).DebugContext(request.Context(), "access_token_rejected",
					slog.String("reason", err.Error()),
				)
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
				return
			}

			next.ServeHTTP(writer, request.WithContext(ctxutil.WithAuthUser(request.Context(), claims)))
		})
	}
}

// # Authorization

// RequireAuth rejects anonymous callers. Mount it after [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return RequireRole(RoleAny)(next)
}

// RoleAny is accepted by [RequireRole] to demand a session without a tier.
const RoleAny sec.UserRole = ""

// RequireRole rejects anonymous callers with 401 and callers whose highest
// role ranks below role with 403.
func RequireRole(role sec.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			claims := ctxutil.GetAuthUser(request.Context())
			if claims == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			if role != RoleAny && !claims.HighestRole().AtLeast(role) {
				ctxutil.GetLogger(request.Context()).WarnContext(request.Context(), "access_denied",
					slog.String("user_id", claims.UserID),
					slog.String("required_role", role.String()),
				)
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
