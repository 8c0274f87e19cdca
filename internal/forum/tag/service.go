// Copyright (c) 2026 Agora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tag

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

// Service implements the tag use cases.
type Service struct {
	repo Repository
}

// NewService constructs a new [Service].
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns every tag.
func (service *Service) List(context context.Context) ([]*Tag, error) {
	return service.repo.List(context)
}

// Create validates name, derives its slug, and stores the tag.
func (service *Service) Create(context context.Context, name string) (*Tag, error) {
	name = strings.TrimSpace(name)

	validator := &validate.Validator{}
	if err := validator.Required(FieldName, name).MaxLen(FieldName, name, 50).Err(); err != nil {
		return nil, err
	}

	tagSlug := slug.From(name)
	if tagSlug == "" {
		return nil, apperr.InvalidArgument("Tag name must contain letters or digits")
	}

	tag := &Tag{
		ID:        uuid.New(),
		Name:      name,
		Slug:      tagSlug,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	if err := service.repo.Create(context, tag); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).InfoContext(context, "tag_created", slog.String("tag_id", tag.ID))
	return tag, nil
}
