// Copyright (c) 2026 Agora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package topic manages discussion threads and their keyset-paginated listing.

Listing order is pinned topics first, then most recent activity, then ID,
all descending. A cursor carries (lastActivityAt, id) of the last topic a
client has seen; the pinned flag of that topic is re-read from the store so
that a page boundary may fall inside either partition.
*/
package topic

import "time"

// Topic is a discussion thread. Its first post is created together with it.
type Topic struct {
	ID             string    `json:"id"`
	CategoryID     string    `json:"categoryId"`
	AuthorID       string    `json:"authorId"`
	Title          string    `json:"title"`
	Slug           string    `json:"slug"`
	IsPinned       bool      `json:"isPinned"`
	IsLocked       bool      `json:"isLocked"`
	PostCount      int       `json:"postCount"`
	LastActivityAt time.Time `json:"lastActivityAt"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
	Tags           []TagRef  `json:"tags"`
}

// TagRef is the projection of a tag embedded in a topic.
type TagRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Filter narrows a topic listing.
type Filter struct {
	// CategoryID restricts the listing to one category when non-empty.
	CategoryID string
}

// OpeningPost is the first post written together with a new topic.
type OpeningPost struct {
	ID   string
	Body string
}

// Validation limits and field names.
const (
	MaxTitleLength = 200
	MaxBodyLength  = 20000
	MaxTags        = 5

	FieldTitle      = "title"
	FieldBody       = "body"
	FieldCategoryID = "categoryId"
	FieldTagIDs     = "tagIds"
	FieldPinned     = "pinned"
	FieldLocked     = "locked"
	FieldTopicID    = "topicId"
)
