package web

import (
	"embed"
	"io/fs"
)

//go:embed public
var content embed.FS

// Public returns the dashboard assets rooted at the public directory.
func Public() fs.FS {
	sub, err := fs.Sub(content, "public")
	if err != nil {
		panic(err)
	}
	return sub
}
