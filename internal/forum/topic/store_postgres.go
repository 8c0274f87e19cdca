// Copyright (c) 2026 Agora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package topic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/agora/internal/platform/apperr"
	"github.com/taibuivan/agora/internal/platform/database/schema"
	"github.com/taibuivan/agora/internal/platform/dberr"
	"github.com/taibuivan/agora/internal/platform/postgres"
	"github.com/taibuivan/agora/pkg/pagination"
)

// PostgresRepository implements [Repository] on forum.topic.
type PostgresRepository struct {
	db postgres.DB
}

// NewPostgresRepository creates a PostgreSQL backed topic store.
func NewPostgresRepository(db postgres.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// topicSelect projects every topic column plus its tags as a JSON array,
// so listings never issue one tag query per topic.
var topicSelect = fmt.Sprintf(`
		SELECT t.%s,
			COALESCE((
				SELECT json_agg(json_build_object('id', g.%s, 'name', g.%s, 'slug', g.%s) ORDER BY g.%s)
				FROM %s g
				JOIN %s tt ON g.%s = tt.%s
				WHERE tt.%s = t.%s
			), '[]') AS tags
		FROM %s t`,
	strings.Join(schema.ForumTopic.Columns(), ", t."),
	schema.ForumTag.ID, schema.ForumTag.Name, schema.ForumTag.Slug, schema.ForumTag.Name,
	schema.ForumTag.Table,
	schema.ForumTopicTag.Table, schema.ForumTag.ID, schema.ForumTopicTag.TagID,
	schema.ForumTopicTag.TopicID, schema.ForumTopic.ID,
	schema.ForumTopic.Table,
)

func scanTopic(row pgx.Row) (*Topic, error) {
	topic := &Topic{}
	var tags []byte

	err := row.Scan(
		&topic.ID,
		&topic.CategoryID,
		&topic.AuthorID,
		&topic.Title,
		&topic.Slug,
		&topic.IsPinned,
		&topic.IsLocked,
		&topic.PostCount,
		&topic.LastActivityAt,
		&topic.CreatedAt,
		&topic.UpdatedAt,
		&tags,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(tags, &topic.Tags); err != nil {
		return nil, fmt.Errorf("decode topic tags: %w", err)
	}
	return topic, nil
}

/*
List runs the keyset scan for one page of topics.

Description: The cursor predicate is the row comparison
(ispinned, lastactivityat, id) < (pinned-of-cursor, cursor.ts, cursor.id),
matching ORDER BY ispinned DESC, lastactivityat DESC, id DESC. Inside one
pinned partition it reduces to ts < c.ts OR (ts = c.ts AND id < c.id).
When the cursor's topic has been deleted its pinned flag reads as FALSE, so
the scan resumes among unpinned topics instead of returning nothing.

Parameters:
  - context: context.Context
  - filter: Filter
  - params: pagination.Params (Limit, Cursor)

Returns:
  - []*Topic: Up to params.FetchLimit() topics
  - error: Query failures
*/
func (repository *PostgresRepository) List(context context.Context, filter Filter, params pagination.Params) ([]*Topic, error) {
	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(topicSelect)
	queryBuilder.WriteString(" WHERE TRUE")

	// Category filter
	if filter.CategoryID != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND t.%s = $%d", schema.ForumTopic.CategoryID, argID))
		args = append(args, filter.CategoryID)
		argID++
	}

	// Keyset predicate
	if params.Cursor != nil {
		queryBuilder.WriteString(fmt.Sprintf(
			" AND (t.%s, t.%s, t.%s) < (COALESCE((SELECT p.%s FROM %s p WHERE p.%s = $%d), FALSE), $%d, $%d)",
			schema.ForumTopic.IsPinned, schema.ForumTopic.LastActivityAt, schema.ForumTopic.ID,
			schema.ForumTopic.IsPinned, schema.ForumTopic.Table, schema.ForumTopic.ID, argID,
			argID+1, argID,
		))
		args = append(args, params.Cursor.ID, params.Cursor.SortValue)
		argID += 2
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY t.%s DESC, t.%s DESC, t.%s DESC LIMIT $%d",
		schema.ForumTopic.IsPinned, schema.ForumTopic.LastActivityAt, schema.ForumTopic.ID, argID))
	args = append(args, params.FetchLimit())

	rows, err := repository.db.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("postgres_topic_repo_list_failed: %w", err)
	}
	defer rows.Close()

	topics := make([]*Topic, 0, params.FetchLimit())
	for rows.Next() {
		topic, err := scanTopic(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres_topic_repo_scan_failed: %w", err)
		}
		topics = append(topics, topic)
	}

	return topics, rows.Err()
}

// FindByID retrieves a topic with its tags.
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Topic, error) {
	query := fmt.Sprintf(`%s WHERE t.%s = $1`, topicSelect, schema.ForumTopic.ID)

	topic, err := scanTopic(repository.db.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Topic")
		}
		return nil, fmt.Errorf("postgres_topic_repo_find_failed: %w", err)
	}

	return topic, nil
}

/*
Create inserts the topic, its opening post, and its tag links in one transaction.

Parameters:
  - context: context.Context
  - topic: *Topic (fully populated by the service)
  - opening: OpeningPost
  - tagIDs: []string (deduplicated)

Returns:
  - error: NotFound for an unknown category, InvalidArgument for an unknown tag
*/
func (repository *PostgresRepository) Create(context context.Context, topic *Topic, opening OpeningPost, tagIDs []string) error {
	insertTopic := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		schema.ForumTopic.Table, strings.Join(schema.ForumTopic.Columns(), ", "))

	insertPost := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6)`,
		schema.ForumPost.Table, strings.Join(schema.ForumPost.Columns(), ", "))

	linkTags := fmt.Sprintf(`INSERT INTO %s (%s, %s) SELECT $1, unnest($2::uuid[])`,
		schema.ForumTopicTag.Table, schema.ForumTopicTag.TopicID, schema.ForumTopicTag.TagID)

	return postgres.InTx(context, repository.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(context, insertTopic,
			topic.ID,
			topic.CategoryID,
			topic.AuthorID,
			topic.Title,
			topic.Slug,
			topic.IsPinned,
			topic.IsLocked,
			topic.PostCount,
			topic.LastActivityAt,
			topic.CreatedAt,
			topic.UpdatedAt,
		)
		if err != nil {
			if dberr.ForeignKeyViolation(err) {
				return apperr.NotFound("Category")
			}
			return fmt.Errorf("postgres_topic_repo_create_failed: %w", err)
		}

		_, err = tx.Exec(context, insertPost,
			opening.ID, topic.ID, topic.AuthorID, opening.Body, topic.CreatedAt, topic.CreatedAt)
		if err != nil {
			return fmt.Errorf("postgres_topic_repo_opening_post_failed: %w", err)
		}

		if len(tagIDs) == 0 {
			return nil
		}

		if _, err := tx.Exec(context, linkTags, topic.ID, tagIDs); err != nil {
			if dberr.ForeignKeyViolation(err) {
				return apperr.InvalidArgument("Unknown tag")
			}
			return fmt.Errorf("postgres_topic_repo_link_tags_failed: %w", err)
		}

		return nil
	})
}

// SetPinned flips the pinned flag.
func (repository *PostgresRepository) SetPinned(context context.Context, id string, pinned bool, now time.Time) error {
	return repository.setFlag(context, schema.ForumTopic.IsPinned, id, pinned, now)
}

// SetLocked flips the locked flag.
func (repository *PostgresRepository) SetLocked(context context.Context, id string, locked bool, now time.Time) error {
	return repository.setFlag(context, schema.ForumTopic.IsLocked, id, locked, now)
}

func (repository *PostgresRepository) setFlag(context context.Context, column, id string, value bool, now time.Time) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3 WHERE %s = $1`,
		schema.ForumTopic.Table, column, schema.ForumTopic.UpdatedAt, schema.ForumTopic.ID)

	tag, err := repository.db.Exec(context, query, id, value, now)
	if err != nil {
		return fmt.Errorf("postgres_topic_repo_set_%s_failed: %w", column, err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Topic")
	}
	return nil
}
