// Package data embeds the bundled park data sets.
package data

import (
	"embed"
	"io/fs"
)

//go:embed magicmountain/*.json
var parks embed.FS

// MagicMountain returns the bundled Magic Mountain collections rooted at the
// directory holding the JSON files.
func MagicMountain() fs.FS {
	sub, err := fs.Sub(parks, "magicmountain")
	if err != nil {
		// the embed pattern guarantees the directory exists
		panic(err)
	}
	return sub
}
