// Copyright (c) 2026 Agora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package topic

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/agora/internal/platform/apperr"
	"github.com/taibuivan/agora/internal/platform/ctxutil"
	"github.com/taibuivan/agora/internal/platform/validate"
	"github.com/taibuivan/agora/pkg/pagination"
	"github.com/taibuivan/agora/pkg/slug"
	"github.com/taibuivan/agora/pkg/uuid"
)

// # Service Layer

// Service implements the topic use cases.
type Service struct {
	repo  Repository
	clock func() time.Time
}

// NewService constructs a new [Service]. clock may be nil.
func NewService(repo Repository, clock func() time.Time) *Service {
	if clock == nil {
		clock = time.Now
	}
	return &Service{repo: repo, clock: clock}
}

func (service *Service) now() time.Time {
	return service.clock().UTC().Truncate(time.Microsecond)
}

// sortKey is the cursor key of a topic.
func sortKey(topic *Topic) (time.Time, string) {
	return topic.LastActivityAt, topic.ID
}

/*
List returns one page of topics in listing order.

Parameters:
  - context: context.Context
  - filter: Filter
  - params: pagination.Params

Returns:
  - []*Topic: At most params.Limit topics
  - pagination.Meta: hasNext and the cursor of the last topic returned
  - error: Repository failures
*/
func (service *Service) List(context context.Context, filter Filter, params pagination.Params) ([]*Topic, pagination.Meta, error) {
	rows, err := service.repo.List(context, filter, params)
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	topics, meta := pagination.Page(rows, params.Limit, sortKey)
	return topics, meta, nil
}

// Get returns a single topic.
func (service *Service) Get(context context.Context, id string) (*Topic, error) {
	return service.repo.FindByID(context, id)
}

// # Topic Management

// CreateInput holds the fields of a new topic and its opening post.
type CreateInput struct {
	CategoryID string
	AuthorID   string
	Title      string
	Body       string
	TagIDs     []string
}

/*
Create validates the input and stores the topic together with its first post.

Description: The new topic starts with postCount 1 and lastActivityAt equal
to its creation time, so it sorts at the top of the unpinned partition.

Parameters:
  - context: context.Context
  - input: CreateInput

Returns:
  - *Topic: The stored topic with its tags
  - error: Validation, NotFound (category), or persistence errors
*/
func (service *Service) Create(context context.Context, input CreateInput) (*Topic, error) {
	title := strings.TrimSpace(input.Title)
	tagIDs := dedupe(input.TagIDs)

	validator := &validate.Validator{}
	validator.Required(FieldTitle, title).
		MaxLen(FieldTitle, title, MaxTitleLength).
		Required(FieldBody, input.Body).
		MaxLen(FieldBody, input.Body, MaxBodyLength).
		UUID(FieldCategoryID, input.CategoryID).
		Custom(FieldTagIDs, len(tagIDs) > MaxTags, "Too many tags")

	for _, tagID := range tagIDs {
		validator.UUID(FieldTagIDs, tagID)
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	if input.AuthorID == "" {
		return nil, apperr.Unauthorized("Authentication required")
	}

	now := service.now()
	topic := &Topic{
		ID:             uuid.New(),
		CategoryID:     input.CategoryID,
		AuthorID:       input.AuthorID,
		Title:          title,
		Slug:           slug.From(title),
		PostCount:      1,
		LastActivityAt: now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	opening := OpeningPost{ID: uuid.New(), Body: input.Body}
	if err := service.repo.Create(context, topic, opening, tagIDs); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).InfoContext(context, "topic_created",
		slog.String("topic_id", topic.ID),
		slog.String("category_id", topic.CategoryID),
		slog.String("author_id", topic.AuthorID),
	)

	return service.repo.FindByID(context, topic.ID)
}

// SetPinned pins or unpins a topic.
func (service *Service) SetPinned(context context.Context, id string, pinned bool) error {
	if err := service.repo.SetPinned(context, id, pinned, service.now()); err != nil {
		return err
	}

	ctxutil.GetLogger(context).InfoContext(context, "topic_pin_changed",
		slog.String("topic_id", id),
		slog.Bool("pinned", pinned),
	)
	return nil
}

// SetLocked locks or unlocks a topic. Locked topics reject new posts.
func (service *Service) SetLocked(context context.Context, id string, locked bool) error {
	if err := service.repo.SetLocked(context, id, locked, service.now()); err != nil {
		return err
	}

	ctxutil.GetLogger(context).InfoContext(context, "topic_lock_changed",
		slog.String("topic_id", id),
		slog.Bool("locked", locked),
	)
	return nil
}

// dedupe drops blank and repeated IDs, keeping first-seen order.
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))

	for _, id := range ids {
		id = strings.ToLower(strings.TrimSpace(id))
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
