// Copyright (c) 2026 Agora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package post manages the replies of a topic.

Posts are listed oldest first, ordered by (createdAt, id) ascending, so a
cursor taken from the last post of a page resumes strictly after it.
Creating a post bumps the topic's postCount and lastActivityAt in the same
transaction and then announces the post to live subscribers.
*/
package post

import (
	"context"
	"time"

	"github.com/taibuivan/agora/internal/realtime"
)

// Post is a single reply inside a topic.
type Post struct {
	ID        string    `json:"id"`
	TopicID   string    `json:"topicId"`
	AuthorID  string    `json:"authorId"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// MaxBodyLength caps the body in characters.
const MaxBodyLength = 20000

// Field names used in validation errors.
const (
	FieldBody    = "body"
	FieldTopicID = "topicId"
)

// Publisher announces committed posts. [realtime.Publisher] implements it.
type Publisher interface {
	PublishPostCreated(ctx context.Context, event realtime.PostCreated) error
}
