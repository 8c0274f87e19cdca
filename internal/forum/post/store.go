// Copyright (c) 2026 Agora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import (
	"context"

	"github.com/taibuivan/agora/pkg/pagination"
)

// Repository defines the persistence operations for posts.
type Repository interface {
	// List returns up to params.FetchLimit() posts of a topic after the cursor.
	List(ctx context.Context, topicID string, params pagination.Params) ([]*Post, error)

	// Create stores the post and bumps the topic counters. It fails with
	// NotFound for an unknown topic and Forbidden for a locked one.
	Create(ctx context.Context, post *Post) error
}
