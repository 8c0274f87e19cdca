// Copyright (c) 2026 Agora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/agora/internal/platform/database/schema"
	"github.com/taibuivan/agora/internal/platform/dberr"
	"github.com/taibuivan/agora/internal/platform/postgres"
)

// PostgresRepository implements [Repository] on forum.category.
type PostgresRepository struct {
	db postgres.DB
}

// NewPostgresRepository creates a PostgreSQL backed category store.
func NewPostgresRepository(db postgres.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var categorySelect = fmt.Sprintf(`SELECT %s FROM %s`,
	strings.Join(schema.ForumCategory.Columns(), ", "), schema.ForumCategory.Table)

func scanCategory(row pgx.Row) (*Category, error) {
	category := &Category{}
	err := row.Scan(&category.ID, &category.Name, &category.Slug, &category.Description, &category.CreatedAt)
	return category, err
}

// List returns every category ordered by name.
func (repository *PostgresRepository) List(context context.Context) ([]*Category, error) {
	query := fmt.Sprintf(`%s ORDER BY %s ASC`, categorySelect, schema.ForumCategory.Name)

	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, fmt.Errorf("postgres_category_repo_list_failed: %w", err)
	}
	defer rows.Close()

	categories := make([]*Category, 0)
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres_category_repo_scan_failed: %w", err)
		}
		categories = append(categories, category)
	}

	return categories, rows.Err()
}

// FindBySlug retrieves a category by its unique slug.
func (repository *PostgresRepository) FindBySlug(context context.Context, slug string) (*Category, error) {
	query := fmt.Sprintf(`%s WHERE %s = $1`, categorySelect, schema.ForumCategory.Slug)

	category, err := scanCategory(repository.db.QueryRow(context, query, slug))
	if err != nil {
		return nil, dberr.Wrap(err, "Category")
	}

	return category, nil
}

// Create inserts a new category.
func (repository *PostgresRepository) Create(context context.Context, category *Category) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5)`,
		schema.ForumCategory.Table, strings.Join(schema.ForumCategory.Columns(), ", "))

	_, err := repository.db.Exec(context, query,
		category.ID, category.Name, category.Slug, category.Description, category.CreatedAt)
	if err != nil {
		return dberr.Wrap(err, "Category")
	}

	return nil
}
