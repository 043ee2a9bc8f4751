// Package changelog renders release history as a Markdown document through a
// text/template. The template receives the ordered release list (newest
// version first); callers may supply their own template to change the output
// shape entirely.
package changelog

import (
	"strings"
	"text/template"

	"github.com/raveheart1/semversioner/internal/errors"
	"github.com/raveheart1/semversioner/internal/model"
)

// DefaultTemplate produces the standard Markdown changelog: a top-level
// heading, a disclaimer about 0.x.y stability, then one section per release
// with one bullet per change.
const DefaultTemplate = `# Changelog
Note: version releases in the 0.x.y range may introduce breaking changes.
{{range .Releases}}
## {{.Version}}

{{range .Changes}}- {{.Type}}: {{.Description}}
{{end}}{{end}}`

// data is the template's dot.
type data struct {
	Releases []model.Release
}

// Render executes templateText against releases. Releases are rendered in the
// order given; an empty release list renders only the template's fixed
// content. A template that does not parse is reported as a user-input error.
func Render(releases []model.Release, templateText string) (string, error) {
	tmpl, err := template.New("changelog").Parse(templateText)
	if err != nil {
		return "", errors.NewUserInputError("invalid changelog template: %v", err)
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, data{Releases: releases}); err != nil {
		return "", errors.NewUserInputError("rendering changelog template: %v", err)
	}
	return b.String(), nil
}
