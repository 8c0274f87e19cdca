// Copyright (c) 2026 Agora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package migrations embeds the versioned SQL schema into the binary.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
