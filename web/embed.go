// Package web holds the html templates, compiled into the binary.
package web

import (
	"embed"
	"io/fs"
)

//go:embed templates
var files embed.FS

// Templates returns the template tree rooted at templates/.
func Templates() fs.FS {
	sub, err := fs.Sub(files, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}
