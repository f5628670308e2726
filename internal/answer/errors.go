package answer

import "fmt"

// InvalidInputError reports a missing or malformed question.
type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s", e.Message)
}

// NotInitializedError reports that no upstream model client is available.
type NotInitializedError struct{}

func (e *NotInitializedError) Error() string {
	return "upstream model client not initialized"
}

// ContentNotLoadedError reports that the corpus holds no text yet.
type ContentNotLoadedError struct{}

func (e *ContentNotLoadedError) Error() string {
	return "legal documents not loaded"
}

// UpstreamError wraps a failed model call.
type UpstreamError struct {
	Model   string
	Message string
	Cause   error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream model %s failed: %s", e.Model, e.Message)
}

func (e *UpstreamError) Unwrap() error {
	return e.Cause
}
