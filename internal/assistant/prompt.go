package assistant

import (
	"strings"

	"pixelforge/internal/knowledge"
	"pixelforge/internal/training"
)

// BuildPrompt renders the system instruction, every training example as a literal
// exchange, then the user's text.
func BuildPrompt(catalog *knowledge.Catalog, examples []training.Example, text string) string {
	var b strings.Builder
	b.WriteString(catalog.SystemPrompt())
	if len(examples) > 0 {
		b.WriteString("\nExamples of how to answer:\n")
		for _, ex := range examples {
			b.WriteString("User: ")
			b.WriteString(ex.Input)
			b.WriteString("\nAssistant: ")
			b.WriteString(ex.ExpectedOutput)
			b.WriteString("\n\n")
		}
	}
	b.WriteString("\nUser: ")
	b.WriteString(text)
	b.WriteString("\nAssistant:")
	return b.String()
}
