package llm

import (
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
)

// Response is a validated completion.
type Response struct {
	Text             string
	FinishReason     string
	PromptTokens     int32
	CompletionTokens int32
}

// extractResponse validates a Gemini API response and flattens its first
// candidate into a Response.
func extractResponse(resp *genai.GenerateContentResponse) (*Response, error) {
	if resp == nil {
		return nil, fmt.Errorf("empty response")
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
		return nil, fmt.Errorf("prompt blocked: %s", resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return nil, fmt.Errorf("no content in response (finish reason: %s)", candidate.FinishReason)
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return nil, fmt.Errorf("no text parts in response")
	}

	out := &Response{
		Text:         strings.Join(parts, ""),
		FinishReason: candidate.FinishReason.String(),
	}
	if resp.UsageMetadata != nil {
		out.PromptTokens = resp.UsageMetadata.PromptTokenCount
		out.CompletionTokens = resp.UsageMetadata.CandidatesTokenCount
	}
	return out, nil
}
