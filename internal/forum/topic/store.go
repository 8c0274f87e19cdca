// Copyright (c) 2026 Agora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package topic

import (
	"context"
	"time"

	"github.com/taibuivan/agora/pkg/pagination"
)

// Repository persists topics.
type Repository interface {
	// List returns up to params.FetchLimit() topics strictly after params.Cursor
	// in listing order.
	List(context context.Context, filter Filter, params pagination.Params) ([]*Topic, error)

	// FindByID returns apperr.NotFound when absent.
	FindByID(context context.Context, id string) (*Topic, error)

	// Create stores the topic, its opening post, and its tag links atomically.
	Create(context context.Context, topic *Topic, opening OpeningPost, tagIDs []string) error

	// SetPinned and SetLocked return apperr.NotFound when absent.
	SetPinned(context context.Context, id string, pinned bool, now time.Time) error
	SetLocked(context context.Context, id string, locked bool, now time.Time) error
}
