// Copyright (c) 2026 Agora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Publisher announces new posts on Redis.
type Publisher struct {
	client redis.Cmdable
}

// NewPublisher creates a Redis-backed [Publisher].
func NewPublisher(client redis.Cmdable) *Publisher {
	return &Publisher{client: client}
}

// PublishPostCreated sends a post.created envelope to the topic channel.
func (publisher *Publisher) PublishPostCreated(context context.Context, event PostCreated) error {
	payload, err := json.Marshal(Envelope{Type: EventPostCreated, Data: event})
	if err != nil {
		return fmt.Errorf("realtime_publish_encode_failed: %w", err)
	}

	if err := publisher.client.Publish(context, Channel(event.TopicID), payload).Err(); err != nil {
		return fmt.Errorf("realtime_publish_failed: %w", err)
	}

	return nil
}
