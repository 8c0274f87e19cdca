// Copyright (c) 2026 Agora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/agora/internal/platform/apperr"
	"github.com/taibuivan/agora/internal/platform/ctxutil"
	"github.com/taibuivan/agora/internal/platform/validate"
	"github.com/taibuivan/agora/pkg/slug"
	"github.com/taibuivan/agora/pkg/uuid"
)

// Service implements the category use cases.
type Service struct {
	repo  Repository
	clock func() time.Time
}

// NewService constructs a new [Service].
func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

// CreateInput holds the fields of a new category.
type CreateInput struct {
	Name        string
	Description string
}

// List returns every category.
func (service *Service) List(context context.Context) ([]*Category, error) {
	return service.repo.List(context)
}

// Get resolves a category by slug.
func (service *Service) Get(context context.Context, categorySlug string) (*Category, error) {
	return service.repo.FindBySlug(context, categorySlug)
}

/*
Create validates and persists a new category.

Description: The slug is derived from the name. A name that reduces to an
empty slug (e.g. only punctuation) is rejected.

Parameters:
  - context: context.Context
  - input: CreateInput

Returns:
  - *Category: The stored category
  - error: Validation or Conflict errors
*/
func (service *Service) Create(context context.Context, input CreateInput) (*Category, error) {
	name := strings.TrimSpace(input.Name)

	validator := &validate.Validator{}
	validator.Required(FieldName, name).
		MaxLen(FieldName, name, 100).
		MaxLen(FieldDescription, input.Description, 500)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	categorySlug := slug.From(name)
	if categorySlug == "" {
		return nil, apperr.InvalidArgument("Category name must contain letters or digits")
	}

	category := &Category{
		ID:          uuid.New(),
		Name:        name,
		Slug:        categorySlug,
		Description: strings.TrimSpace(input.Description),
		CreatedAt:   service.clock().UTC().Truncate(time.Microsecond),
	}

	if err := service.repo.Create(context, category); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).InfoContext(context, "category_created",
		slog.String("category_id", category.ID),
		slog.String("slug", category.Slug),
	)
	return category, nil
}
