// resolver.go - Maps a question category to its workspace and prompt template

package discovery

import (
	"errors"
	"strings"

	"go-discovery-backend/models"
)

// ErrUnmappedCategory means no mapping exists for the category. It never
// aborts a batch; the orchestrator turns it into a warning outcome.
var ErrUnmappedCategory = errors.New("no workspace mapping for category")

// Template names one of the three prompt templates.
type Template string

const (
	TemplateGeneral Template = "general"
	TemplateSizing  Template = "sizing"
	TemplateMatrix  Template = "matrix"
)

type mappingSource interface {
	Find(category string) (*models.CategoryMapping, bool)
}

type promptSource interface {
	Get() models.PromptSettings
}

type Resolver struct {
	mappings mappingSource
	prompts  promptSource
}

func NewResolver(mappings mappingSource, prompts promptSource) *Resolver {
	return &Resolver{mappings: mappings, prompts: prompts}
}

// Workspace returns the workspace mapped to category (exact match).
func (r *Resolver) Workspace(category string) (string, error) {
	m, ok := r.mappings.Find(category)
	if !ok {
		return "", ErrUnmappedCategory
	}
	return m.WorkspaceName, nil
}

// Template returns the template kind for category and its current text.
func (r *Resolver) Template(category string) (Template, string) {
	kind := TemplateFor(category)
	return kind, kind.Text(r.prompts.Get())
}

// TemplateFor picks a template by case-insensitive substring.
// "matrix" is checked before "sizing".
func TemplateFor(category string) Template {
	c := strings.ToLower(category)
	switch {
	case strings.Contains(c, "matrix"):
		return TemplateMatrix
	case strings.Contains(c, "sizing"):
		return TemplateSizing
	default:
		return TemplateGeneral
	}
}

// Text selects the template's text from settings.
func (t Template) Text(p models.PromptSettings) string {
	switch t {
	case TemplateMatrix:
		return p.Matrix
	case TemplateSizing:
		return p.Sizing
	default:
		return p.General
	}
}
