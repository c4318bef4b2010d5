package migrations

import "embed"

// FS holds the numbered schema migrations applied by `portal-server migrate`.
//
//go:embed *.sql
var FS embed.FS
