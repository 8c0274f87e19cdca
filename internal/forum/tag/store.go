// Copyright (c) 2026 Agora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tag

import "context"

// Repository persists tags.
type Repository interface {
	List(context context.Context) ([]*Tag, error)
	Create(context context.Context, tag *Tag) error
}
