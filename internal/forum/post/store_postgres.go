// Copyright (c) 2026 Agora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/agora/internal/platform/apperr"
	"github.com/taibuivan/agora/internal/platform/database/schema"
	"github.com/taibuivan/agora/internal/platform/postgres"
	"github.com/taibuivan/agora/pkg/pagination"
)

// PostgresRepository implements [Repository] on forum.post.
type PostgresRepository struct {
	db postgres.DB
}

// NewPostgresRepository creates a PostgreSQL backed post store.
func NewPostgresRepository(db postgres.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

/*
List runs the ascending keyset scan over one topic.

Description: The cursor predicate is
createdat > c.ts OR (createdat = c.ts AND id > c.id), the mirror of
ORDER BY createdat ASC, id ASC. An unknown topic simply has no posts.

Parameters:
  - context: context.Context
  - topicID: string
  - params: pagination.Params

Returns:
  - []*Post: Up to params.FetchLimit() posts
  - error: Query failures
*/
func (repository *PostgresRepository) List(context context.Context, topicID string, params pagination.Params) ([]*Post, error) {
	var queryBuilder strings.Builder
	args := []any{topicID}
	argID := 2

	queryBuilder.WriteString(fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		strings.Join(schema.ForumPost.Columns(), ", "), schema.ForumPost.Table, schema.ForumPost.TopicID))

	if params.Cursor != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND (%s > $%d OR (%s = $%d AND %s > $%d))",
			schema.ForumPost.CreatedAt, argID,
			schema.ForumPost.CreatedAt, argID,
			schema.ForumPost.ID, argID+1,
		))
		args = append(args, params.Cursor.SortValue, params.Cursor.ID)
		argID += 2
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s ASC, %s ASC LIMIT $%d",
		schema.ForumPost.CreatedAt, schema.ForumPost.ID, argID))
	args = append(args, params.FetchLimit())

	rows, err := repository.db.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("postgres_post_repo_list_failed: %w", err)
	}
	defer rows.Close()

	posts := make([]*Post, 0, params.FetchLimit())
	for rows.Next() {
		post := &Post{}
		if err := rows.Scan(&post.ID, &post.TopicID, &post.AuthorID, &post.Body, &post.CreatedAt, &post.UpdatedAt); err != nil {
			return nil, fmt.Errorf("postgres_post_repo_scan_failed: %w", err)
		}
		posts = append(posts, post)
	}

	return posts, rows.Err()
}

/*
Create inserts a reply and bumps its topic.

Description: The topic row is locked first so a concurrent lock or reply
cannot interleave with the counter update.

Returns:
  - error: NotFound (topic), Forbidden (locked topic), or persistence errors
*/
func (repository *PostgresRepository) Create(context context.Context, post *Post) error {
	lockTopic := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 FOR UPDATE`,
		schema.ForumTopic.IsLocked, schema.ForumTopic.Table, schema.ForumTopic.ID)

	insertPost := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6)`,
		schema.ForumPost.Table, strings.Join(schema.ForumPost.Columns(), ", "))

	bumpTopic := fmt.Sprintf(`UPDATE %s SET %s = %s + 1, %s = $2, %s = $2 WHERE %s = $1`,
		schema.ForumTopic.Table,
		schema.ForumTopic.PostCount, schema.ForumTopic.PostCount,
		schema.ForumTopic.LastActivityAt, schema.ForumTopic.UpdatedAt,
		schema.ForumTopic.ID,
	)

	return postgres.InTx(context, repository.db, func(tx pgx.Tx) error {
		var locked bool
		if err := tx.QueryRow(context, lockTopic, post.TopicID).Scan(&locked); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperr.NotFound("Topic")
			}
			return fmt.Errorf("postgres_post_repo_lock_topic_failed: %w", err)
		}

		if locked {
			return apperr.Forbidden("Topic is locked")
		}

		_, err := tx.Exec(context, insertPost,
			post.ID, post.TopicID, post.AuthorID, post.Body, post.CreatedAt, post.UpdatedAt)
		if err != nil {
			return fmt.Errorf("postgres_post_repo_create_failed: %w", err)
		}

		if _, err := tx.Exec(context, bumpTopic, post.TopicID, post.CreatedAt); err != nil {
			return fmt.Errorf("postgres_post_repo_bump_topic_failed: %w", err)
		}

		return nil
	})
}
