// Copyright (c) 2026 Agora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package realtime fans new posts out to live topic viewers.

Publishing goes through Redis pub/sub so that every API replica can serve
websocket subscribers for any topic:

	POST /topics/{id}/posts -> Publisher -> PUBLISH agora:topic:{id}:posts
	GET  /topics/{id}/live  -> SUBSCRIBE agora:topic:{id}:posts -> websocket frames

Delivery is best effort. A viewer that is disconnected while a post is
published does not receive it and is expected to refetch the post list.
*/
package realtime

import (
	"time"

	"github.com/taibuivan/agora/internal/platform/constants"
)

// EventPostCreated is the type of the message sent for every new post.
const EventPostCreated = "post.created"

// Envelope is the JSON frame written to subscribers.
type Envelope struct {
	Type string      `json:"type"`
	Data PostCreated `json:"data"`
}

// PostCreated describes a post that was just committed.
type PostCreated struct {
	PostID    string    `json:"postId"`
	TopicID   string    `json:"topicId"`
	AuthorID  string    `json:"authorId"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

// Channel returns the Redis channel carrying the posts of topicID.
func Channel(topicID string) string {
	return constants.RedisPrefixTopicFeed + topicID + ":posts"
}
