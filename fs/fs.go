// Package appfs exposes the files embedded into the binaries:
// database migrations and email templates.
package appfs

import "embed"

//go:embed migrations/*.sql templates/email/*
var FS embed.FS
