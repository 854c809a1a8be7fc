// Package web provides embedded static assets for the dashboard.
package web

import (
	"embed"
)

// Files contains the dashboard served at the HTTP root. The page talks
// to the JSON API only, so it can also be hosted elsewhere unchanged.
//
//go:embed static
var Files embed.FS
