// Copyright (c) 2026 Agora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category

import "context"

// Repository persists categories.
type Repository interface {
	// List returns every category ordered by name.
	List(context context.Context) ([]*Category, error)

	// FindBySlug returns apperr.NotFound when no category matches.
	FindBySlug(context context.Context, slug string) (*Category, error)

	// Create returns apperr.Conflict when the slug is taken.
	Create(context context.Context, category *Category) error
}
