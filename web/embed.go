// Package web embeds the static browser assets for the interactive map.
package web

import "embed"

//go:embed static
var Assets embed.FS
