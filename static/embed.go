package static

import "embed"

//go:embed index.html css/*.css js/*.js
var files embed.FS

// EmbeddedFS returns the bundled web client assets.
func EmbeddedFS() embed.FS {
	return files
}
