// Copyright (c) 2026 Agora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/agora/internal/platform/middleware"
	requestutil "github.com/taibuivan/agora/internal/platform/request"
	"github.com/taibuivan/agora/internal/platform/respond"
	"github.com/taibuivan/agora/internal/platform/sec"
	"github.com/taibuivan/agora/internal/platform/validate"
)

// # Definitions & Constructors

// Throttle returns a middleware limiting the named credential endpoint.
type Throttle func(scope string) func(http.Handler) http.Handler

// Handler implements authentication-related HTTP endpoints.
type Handler struct {
	authService *Service
	throttle    Throttle
}

// NewHandler constructs a new [Handler]. throttle may be nil.
func NewHandler(service *Service, throttle Throttle) *Handler {
	if throttle == nil {
		throttle = func(string) func(http.Handler) http.Handler {
			return func(next http.Handler) http.Handler { return next }
		}
	}
	return &Handler{authService: service, throttle: throttle}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /register     : Creates a new account.
//   - POST /login        : Exchanges credentials for a token pair.
//   - POST /refresh      : Rotates a refresh token.
//   - POST /logout       : Revokes one refresh token.
//   - POST /logout-all   : Revokes every refresh token of the caller.
//   - POST /verify-email : Confirms an email address.
//   - GET  /me           : Returns the caller's account.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Credential endpoints share a per-IP budget across replicas
	router.With(handler.throttle("register")).Post("/register", handler.register)
	router.With(handler.throttle("login")).Post("/login", handler.login)
	router.With(handler.throttle("refresh")).Post("/refresh", handler.refresh)

	router.Post("/logout", handler.logout)
	router.Post("/verify-email", handler.verifyEmail)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/logout-all", handler.logoutAll)
		r.Get("/me", handler.me)
	})

	return router
}

// AdminRoutes returns the account moderation routes, mounted under /admin/users.
func (handler *Handler) AdminRoutes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireRole(sec.RoleAdmin))

	router.Put("/{userID}/status", handler.setStatus)

	return router
}

// # Request Payloads

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type verifyEmailRequest struct {
	Token string `json:"token"`
}

type setStatusRequest struct {
	Status string `json:"status"`
}

type registerResponse struct {
	UserID string `json:"userId"`
}

/*
Register handles the creation of a new user account.

POST /api/v1/auth/register

Request:
  - Body: registerRequest (Username, Email, Password)

Response:
  - 201: {userId}
  - 400: Bad input or validation failure
  - 409: Username or Email already exists
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		Length(FieldUsername, input.Username, MinUsernameLength, MaxUsernameLength).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).
		Length(FieldPassword, input.Password, MinPasswordLength, MaxPasswordBytes).
		MaxBytes(FieldPassword, input.Password, MaxPasswordBytes)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	userID, err := handler.authService.Register(request.Context(), RegisterInput{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, registerResponse{UserID: userID})
}

/*
Login authenticates a user and issues a token pair.

POST /api/v1/auth/login

Response:
  - 200: TokenPair
  - 400: Missing fields
  - 401: Invalid credentials or suspended account
  - 429: Too many attempts from this IP
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	pair, err := handler.authService.Login(request.Context(), LoginInput{
		Email:     input.Email,
		Password:  input.Password,
		UserAgent: request.UserAgent(),
		IPAddress: middleware.RealIP(request),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, pair)
}

/*
Refresh rotates a refresh token.

POST /api/v1/auth/refresh

Response:
  - 200: TokenPair (the presented refresh token is now revoked)
  - 401: Unknown, expired, revoked, or already used token
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	var input refreshRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	pair, err := handler.authService.Refresh(request.Context(), RefreshInput{
		RefreshToken: input.RefreshToken,
		UserAgent:    request.UserAgent(),
		IPAddress:    middleware.RealIP(request),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, pair)
}

// logout revokes the presented refresh token. Always 204.
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	var input refreshRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.Logout(request.Context(), input.RefreshToken); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

func (handler *Handler) logoutAll(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.LogoutAll(request.Context(), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

func (handler *Handler) verifyEmail(writer http.ResponseWriter, request *http.Request) {
	var input verifyEmailRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	if err := validator.Required(FieldToken, input.Token).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.VerifyEmail(request.Context(), input.Token); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]bool{"emailVerified": true})
}

func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Me(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
SetStatus suspends or reinstates an account.

PUT /api/v1/admin/users/{userID}/status

Response:
  - 204: Status applied
  - 400: Unknown status or malformed user ID
  - 403: Caller is not an admin
  - 404: Unknown user
*/
func (handler *Handler) setStatus(writer http.ResponseWriter, request *http.Request) {
	var input setStatusRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	userID := requestutil.Param(request, "userID")

	validator := &validate.Validator{}
	validator.UUID(FieldUserID, userID)
	validator.OneOf(FieldStatus, input.Status, string(StatusActive), string(StatusSuspended))

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.SetStatus(request.Context(), userID, UserStatus(input.Status)); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
