// Copyright (c) 2026 Agora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package category manages the top-level sections topics are filed under.
package category

import "time"

// Category groups related topics (e.g. "General", "Announcements").
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Field names reported by validation failures.
const (
	FieldName        = "name"
	FieldDescription = "description"
)
