// Copyright (c) 2026 Agora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/agora/internal/forum/category"
	"github.com/taibuivan/agora/internal/platform/apperr"
	"github.com/taibuivan/agora/internal/platform/ctxutil"
	"github.com/taibuivan/agora/internal/platform/sec"
)

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

/*
TestService_Create derives the slug and persists the category.
*/
func TestService_Create(t *testing.T) {
	mock := newMockPool(t)
	service := category.NewService(category.NewPostgresRepository(mock))

	mock.ExpectExec(`INSERT INTO forum.category \(id, name, slug, description, createdat\)`).
		WithArgs(pgxmock.AnyArg(), "Général Talk", "general-talk", "Anything goes", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	created, err := service.Create(context.Background(), category.CreateInput{
		Name:        "  Général Talk ",
		Description: "Anything goes",
	})
	require.NoError(t, err)
	assert.Equal(t, "general-talk", created.Slug)
	assert.NotEmpty(t, created.ID)
}

/*
TestService_CreateRejects covers validation and slug conflicts.
*/
func TestService_CreateRejects(t *testing.T) {
	t.Run("empty_name", func(t *testing.T) {
		service := category.NewService(category.NewPostgresRepository(newMockPool(t)))

		_, err := service.Create(context.Background(), category.CreateInput{Name: "   "})
		require.NotNil(t, apperr.As(err))
		assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	})

	t.Run("punctuation_only", func(t *testing.T) {
		service := category.NewService(category.NewPostgresRepository(newMockPool(t)))

		_, err := service.Create(context.Background(), category.CreateInput{Name: "!!!"})
		require.NotNil(t, apperr.As(err))
		assert.Equal(t, "INVALID_ARGUMENT", apperr.As(err).Code)
	})

	t.Run("duplicate_slug", func(t *testing.T) {
		mock := newMockPool(t)
		service := category.NewService(category.NewPostgresRepository(mock))

		mock.ExpectExec(`INSERT INTO forum.category`).
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "category_slug_key"})

		_, err := service.Create(context.Background(), category.CreateInput{Name: "General"})
		require.NotNil(t, apperr.As(err))
		assert.Equal(t, "CONFLICT", apperr.As(err).Code)
	})
}

/*
TestPostgresRepository_Reads covers listing and slug lookups.
*/
func TestPostgresRepository_Reads(t *testing.T) {
	mock := newMockPool(t)
	repo := category.NewPostgresRepository(mock)
	created := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	columns := []string{"id", "name", "slug", "description", "createdat"}

	mock.ExpectQuery(`SELECT id, name, slug, description, createdat FROM forum.category ORDER BY name ASC`).
		WillReturnRows(pgxmock.NewRows(columns).
			AddRow("c-1", "Announcements", "announcements", "", created).
			AddRow("c-2", "General", "general", "Chat", created))

	categories, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "general", categories[1].Slug)

	mock.ExpectQuery(`FROM forum.category WHERE slug = \$1`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err = repo.FindBySlug(context.Background(), "missing")
	assert.True(t, apperr.IsNotFound(err))
}

/*
TestHandler_CreateRequiresAdmin guards the write route.
*/
func TestHandler_CreateRequiresAdmin(t *testing.T) {
	mock := newMockPool(t)
	handler := category.NewHandler(category.NewService(category.NewPostgresRepository(mock)))

	router := chi.NewRouter()
	router.Mount("/categories", handler.Routes())

	post := func(roles ...string) int {
		request := httptest.NewRequest(http.MethodPost, "/categories", strings.NewReader(`{"name":"General"}`))
		if roles != nil {
			claims := &sec.AuthClaims{UserID: "u-1", Roles: roles}
			request = request.WithContext(ctxutil.WithAuthUser(request.Context(), claims))
		}
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)
		return recorder.Code
	}

	assert.Equal(t, http.StatusUnauthorized, post())
	assert.Equal(t, http.StatusForbidden, post("moderator"))

	mock.ExpectExec(`INSERT INTO forum.category`).
		WithArgs(pgxmock.AnyArg(), "General", "general", "", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	assert.Equal(t, http.StatusCreated, post("admin"))
}
