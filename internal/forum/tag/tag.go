// Copyright (c) 2026 Agora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package tag manages the free-form labels attached to topics.
package tag

import "time"

// Tag is a label a topic can carry (e.g. "golang", "help-wanted").
type Tag struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"-"`
}

// FieldName is the validated request field.
const FieldName = "name"
