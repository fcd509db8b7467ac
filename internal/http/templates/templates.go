package templates

import (
	"embed"
	"html/template"
)

//go:embed *.tmpl
var files embed.FS

// Load parses every console template.
func Load() (*template.Template, error) {
	return template.New("").ParseFS(files, "*.tmpl")
}
