// Copyright (c) 2026 Agora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/agora/internal/forum/post"
	"github.com/taibuivan/agora/internal/platform/apperr"
	"github.com/taibuivan/agora/pkg/pagination"
)

var postColumns = []string{"id", "topicid", "authorid", "body", "createdat", "updatedat"}

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

func TestPostgresRepository_ListKeyset(t *testing.T) {
	mock := newMockPool(t)
	repo := post.NewPostgresRepository(mock)
	at := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM forum.post WHERE topicid = \$1 ` +
		`AND \(createdat > \$2 OR \(createdat = \$2 AND id > \$3\)\) ` +
		`ORDER BY createdat ASC, id ASC LIMIT \$4`).
		WithArgs(topicID, at, "p-4", 6).
		WillReturnRows(pgxmock.NewRows(postColumns).
			AddRow("p-5", topicID, authorID, "hello", at, at).
			AddRow("p-6", topicID, authorID, "again", at.Add(time.Second), at.Add(time.Second)))

	posts, err := repo.List(context.Background(), topicID, pagination.Params{
		Limit:  5,
		Cursor: &pagination.Cursor{SortValue: at, ID: "p-4"},
	})
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "p-5", posts[0].ID)
	assert.Equal(t, "again", posts[1].Body)
}

func TestPostgresRepository_ListFirstPage(t *testing.T) {
	mock := newMockPool(t)
	repo := post.NewPostgresRepository(mock)

	mock.ExpectQuery(`FROM forum.post WHERE topicid = \$1 ORDER BY createdat ASC, id ASC LIMIT \$2`).
		WithArgs(topicID, 21).
		WillReturnRows(pgxmock.NewRows(postColumns))

	posts, err := repo.List(context.Background(), topicID, pagination.Params{Limit: 20})
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestPostgresRepository_Create(t *testing.T) {
	at := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	newPost := func() *post.Post {
		return &post.Post{ID: "p-1", TopicID: topicID, AuthorID: authorID, Body: "hi", CreatedAt: at, UpdatedAt: at}
	}

	t.Run("commits_and_bumps_topic", func(t *testing.T) {
		mock := newMockPool(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT islocked FROM forum.topic WHERE id = \$1 FOR UPDATE`).
			WithArgs(topicID).
			WillReturnRows(pgxmock.NewRows([]string{"islocked"}).AddRow(false))
		mock.ExpectExec(`INSERT INTO forum.post \(id, topicid, authorid, body, createdat, updatedat\)`).
			WithArgs("p-1", topicID, authorID, "hi", at, at).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectExec(`UPDATE forum.topic SET postcount = postcount \+ 1, lastactivityat = \$2, updatedat = \$2 WHERE id = \$1`).
			WithArgs(topicID, at).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectCommit()

		require.NoError(t, post.NewPostgresRepository(mock).Create(context.Background(), newPost()))
	})

	t.Run("unknown_topic", func(t *testing.T) {
		mock := newMockPool(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT islocked FROM forum.topic`).
			WithArgs(topicID).
			WillReturnError(pgx.ErrNoRows)
		mock.ExpectRollback()

		err := post.NewPostgresRepository(mock).Create(context.Background(), newPost())
		assert.True(t, apperr.IsNotFound(err))
	})

	t.Run("locked_topic", func(t *testing.T) {
		mock := newMockPool(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT islocked FROM forum.topic`).
			WithArgs(topicID).
			WillReturnRows(pgxmock.NewRows([]string{"islocked"}).AddRow(true))
		mock.ExpectRollback()

		err := post.NewPostgresRepository(mock).Create(context.Background(), newPost())
		appErr := apperr.As(err)
		require.NotNil(t, appErr)
		assert.Equal(t, "FORBIDDEN", appErr.Code)
		assert.Equal(t, "Topic is locked", appErr.Message)
	})

	t.Run("insert_failure_rolls_back", func(t *testing.T) {
		mock := newMockPool(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT islocked FROM forum.topic`).
			WithArgs(topicID).
			WillReturnRows(pgxmock.NewRows([]string{"islocked"}).AddRow(false))
		mock.ExpectExec(`INSERT INTO forum.post`).
			WithArgs("p-1", topicID, authorID, "hi", at, at).
			WillReturnError(errors.New("disk full"))
		mock.ExpectRollback()

		err := post.NewPostgresRepository(mock).Create(context.Background(), newPost())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "postgres_post_repo_create_failed")
	})
}
