package ingestion

import "fmt"

// ExtractionError wraps a parse failure raised while turning a fetched source
// into plain text.
type ExtractionError struct {
	Format  string
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s extraction error: %s: %v", e.Format, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s extraction error: %s", e.Format, e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}
