package answer

import (
	"github.com/outliers/druknation/internal/prompts"
)

var legalTemplate = prompts.MustGet(prompts.LegalFile, prompts.LegalAnswerKey)

// BuildPrompt fills the legal answering template with the full corpus and the
// question. The context is inserted verbatim and never truncated.
func BuildPrompt(question, context string) string {
	return prompts.Format(legalTemplate, map[string]string{
		"Context":  context,
		"Question": question,
	})
}
