// Package web embeds the HTML templates served by the page routes.
package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed templates
var content embed.FS

// Templates returns the template tree rooted at templates/.
func Templates() http.FileSystem {
	sub, err := fs.Sub(content, "templates")
	if err != nil {
		panic(err)
	}

	return http.FS(sub)
}
