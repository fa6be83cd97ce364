package server

import (
	"embed"
	"html/template"
	"io/fs"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed templates/*
var templateFiles embed.FS

func TemplateFilesFS() fs.FS {
	subFS, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		panic("Failed to create templates sub filesystem: " + err.Error())
	}
	return subFS
}

// ParseTemplate parses a template from the embedded filesystem
func ParseTemplate(name string) (*template.Template, error) {
	content, err := fs.ReadFile(TemplateFilesFS(), name)
	if err != nil {
		return nil, err
	}
	return template.New(name).Funcs(template.FuncMap{
		"title": title,
	}).Parse(string(content))
}

// title upper-cases the first letter of each word. A Caser is stateful, so one is built per call.
func title(s string) string {
	return cases.Title(language.English).String(s)
}
