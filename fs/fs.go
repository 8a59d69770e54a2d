// Package appfs embeds the static assets the binaries need at runtime:
// database migrations and document templates.
package appfs

import "embed"

//go:embed migrations templates
var FS embed.FS
