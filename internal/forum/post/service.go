// Copyright (c) 2026 Agora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import (
	"context"
	"log/slog"
	"time"

	"github.com/taibuivan/agora/internal/platform/apperr"
	"github.com/taibuivan/agora/internal/platform/ctxutil"
	"github.com/taibuivan/agora/internal/platform/validate"
	"github.com/taibuivan/agora/internal/realtime"
	"github.com/taibuivan/agora/pkg/pagination"
	"github.com/taibuivan/agora/pkg/uuid"
)

// # Service Layer

// Service implements the post use cases.
type Service struct {
	repo      Repository
	publisher Publisher
	clock     func() time.Time
}

// NewService constructs a new [Service]. publisher and clock may be nil.
func NewService(repo Repository, publisher Publisher, clock func() time.Time) *Service {
	if clock == nil {
		clock = time.Now
	}
	return &Service{repo: repo, publisher: publisher, clock: clock}
}

func sortKey(post *Post) (time.Time, string) {
	return post.CreatedAt, post.ID
}

// List returns one page of a topic's posts, oldest first.
func (service *Service) List(context context.Context, topicID string, params pagination.Params) ([]*Post, pagination.Meta, error) {
	rows, err := service.repo.List(context, topicID, params)
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	posts, meta := pagination.Page(rows, params.Limit, sortKey)
	return posts, meta, nil
}

/*
Create stores a reply and announces it to live subscribers.

Description: Publishing happens after commit. A publish failure is logged
and never fails the request, since the post is already durable.

Parameters:
  - context: context.Context
  - topicID: string
  - authorID: string
  - body: string

Returns:
  - *Post: The stored post
  - error: Validation, NotFound, Forbidden (locked), or persistence errors
*/
func (service *Service) Create(context context.Context, topicID, authorID, body string) (*Post, error) {
	validator := &validate.Validator{}
	validator.UUID(FieldTopicID, topicID).
		Required(FieldBody, body).
		MaxLen(FieldBody, body, MaxBodyLength)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	if authorID == "" {
		return nil, apperr.Unauthorized("Authentication required")
	}

	now := service.clock().UTC().Truncate(time.Microsecond)
	post := &Post{
		ID:        uuid.New(),
		TopicID:   topicID,
		AuthorID:  authorID,
		Body:      body,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := service.repo.Create(context, post); err != nil {
		return nil, err
	}

	logger := ctxutil.GetLogger(context)
	logger.InfoContext(context, "post_created",
		slog.String("post_id", post.ID),
		slog.String("topic_id", topicID),
		slog.String("author_id", authorID),
	)

	if service.publisher != nil {
		err := service.publisher.PublishPostCreated(context, realtime.PostCreated{
			PostID:    post.ID,
			TopicID:   post.TopicID,
			AuthorID:  post.AuthorID,
			Body:      post.Body,
			CreatedAt: post.CreatedAt,
		})
		if err != nil {
			logger.WarnContext(context, "post_publish_failed",
				slog.String("post_id", post.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	return post, nil
}
