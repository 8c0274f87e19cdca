// Copyright (c) 2026 Agora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tag

import (
	"context"
	"fmt"

	"github.com/taibuivan/agora/internal/platform/database/schema"
	"github.com/taibuivan/agora/internal/platform/dberr"
	"github.com/taibuivan/agora/internal/platform/postgres"
)

// PostgresRepository implements [Repository] on forum.tag.
type PostgresRepository struct {
	db postgres.DB
}

// NewPostgresRepository creates a PostgreSQL backed tag store.
func NewPostgresRepository(db postgres.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// List returns every tag ordered by name.
func (repository *PostgresRepository) List(context context.Context) ([]*Tag, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s FROM %s ORDER BY %s ASC`,
		schema.ForumTag.ID, schema.ForumTag.Name, schema.ForumTag.Slug, schema.ForumTag.CreatedAt,
		schema.ForumTag.Table, schema.ForumTag.Name)

	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, fmt.Errorf("postgres_tag_repo_list_failed: %w", err)
	}
	defer rows.Close()

	tags := make([]*Tag, 0)
	for rows.Next() {
		t := &Tag{}
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("postgres_tag_repo_scan_failed: %w", err)
		}
		tags = append(tags, t)
	}

	return tags, rows.Err()
}

// Create inserts a tag. A taken slug yields apperr.Conflict.
func (repository *PostgresRepository) Create(context context.Context, tag *Tag) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s) VALUES ($1, $2, $3, $4)`,
		schema.ForumTag.Table,
		schema.ForumTag.ID, schema.ForumTag.Name, schema.ForumTag.Slug, schema.ForumTag.CreatedAt)

	if _, err := repository.db.Exec(context, query, tag.ID, tag.Name, tag.Slug, tag.CreatedAt); err != nil {
		return dberr.Wrap(err, "Tag")
	}

	return nil
}
