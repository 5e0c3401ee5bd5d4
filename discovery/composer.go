// composer.go - Builds the exact message sent to the knowledge base

package discovery

import "strings"

const closingInstruction = "Provide a clear, actionable reply grounded in the knowledge base."

type PromptInput struct {
	Template     string
	CustomerName string
	ProjectName  string
	Category     string
	Question     string
	Answer       string
}

// Compose lays out template, optional customer/project lines, the question
// block and the closing instruction. The layout is stable; tests compare it verbatim.
func Compose(in PromptInput) string {
	var contextLines []string
	if name := strings.TrimSpace(in.CustomerName); name != "" {
		contextLines = append(contextLines, "Customer Name: "+name)
	}
	if name := strings.TrimSpace(in.ProjectName); name != "" {
		contextLines = append(contextLines, "Project Name: "+name)
	}
	contextBlock := ""
	if len(contextLines) > 0 {
		contextBlock = "\n" + strings.Join(contextLines, "\n")
	}

	parts := []string{
		strings.TrimSpace(in.Template),
		contextBlock,
		"\nQuestion Category: " + in.Category,
		"Question: " + in.Question,
		"Customer Response: " + in.Answer,
		"\n" + closingInstruction,
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}
