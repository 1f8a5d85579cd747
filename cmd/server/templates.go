package main

import (
	"html/template"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

const templatesGlob = "integrations/templates/*.html"

// LoadTemplates parses HTML templates for integrations
func LoadTemplates(pattern string) (*template.Template, error) {
	tmpl := template.New("")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		log.Warn().Str("pattern", pattern).Msg("no integration templates found")
	}
	for _, f := range files {
		if tmpl, err = tmpl.ParseFiles(f); err != nil {
			return nil, err
		}
	}
	return tmpl, nil
}
