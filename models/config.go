// config.go - Category mappings, products with their questions, and prompt templates

package models

import "time"

// CategoryMapping routes a question category to a knowledge base workspace.
type CategoryMapping struct {
	ID            string     `json:"id"`
	Category      string     `json:"category"`
	WorkspaceName string     `json:"workspace_name"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at"`
}

// Product as returned to callers. Questions live in their own collection
// and are joined at read time.
type Product struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt *time.Time          `json:"updated_at"`
	Questions []DiscoveryQuestion `json:"questions"`
}

type DiscoveryQuestion struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"product_id"`
	Question      string    `json:"question"`
	Category      string    `json:"category"`
	QuestionOrder int       `json:"question_order"`
	CreatedAt     time.Time `json:"created_at"`
}

// QuestionInput is one question as submitted when a product is created or updated.
// ID is optional and kept when present.
type QuestionInput struct {
	ID       string `json:"id,omitempty"`
	Question string `json:"question" binding:"required"`
	Category string `json:"category" binding:"required"`
}

// PromptSettings is the singleton set of prompt templates.
type PromptSettings struct {
	General string `json:"general"`
	Sizing  string `json:"sizing"`
	Matrix  string `json:"matrix"`
}

// Built-in templates used when a stored key is missing.
const (
	DefaultGeneralPrompt = "You are an experienced AI Cloud Architect. Review the customer's question and context, then provide a clear, actionable response grounded in the knowledge base. Highlight relevant architecture considerations, best practices, and next steps."
	DefaultSizingPrompt  = "You are a cloud sizing specialist. Evaluate the customer's workload details and provide capacity, performance, and scaling recommendations grounded in the knowledge base. Call out assumptions, potential gaps, and sizing considerations that may impact cost or performance."
	DefaultMatrixPrompt  = "You are consulting on the Cloud Matrix. Analyze the customer's needs and interpret the matrix to recommend the best-fit OpenText Cloud products and services. Explain the reasoning, highlight trade-offs, and suggest any follow-up actions needed."
)

func DefaultPrompts() PromptSettings {
	return PromptSettings{
		General: DefaultGeneralPrompt,
		Sizing:  DefaultSizingPrompt,
		Matrix:  DefaultMatrixPrompt,
	}
}

// Complete reports whether every template is set.
func (p PromptSettings) Complete() bool {
	return p.General != "" && p.Sizing != "" && p.Matrix != ""
}

// WithDefaults fills empty templates from the built-in defaults.
func (p PromptSettings) WithDefaults() PromptSettings {
	d := DefaultPrompts()
	if p.General == "" {
		p.General = d.General
	}
	if p.Sizing == "" {
		p.Sizing = d.Sizing
	}
	if p.Matrix == "" {
		p.Matrix = d.Matrix
	}
	return p
}
