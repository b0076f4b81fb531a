package planner

import (
	"encoding/json"
	"fmt"
	"strings"
)

// UpstreamError reports a failed call to the generation service: transport
// failure, timeout, or a non-2xx response. Status and body are carried
// through so the caller can tell "service down" from "service rejected
// input".
type UpstreamError struct {
	StatusCode int
	Body       []byte
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("generation service returned status %d: %s", e.StatusCode, string(e.Body))
	}
	return fmt.Sprintf("generation service request failed: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// ValidationError rejects a structurally well-formed response whose content
// violates the plan contract. It aggregates every violation and keeps the
// raw payload for diagnostics; a plan with any violation is rejected whole.
type ValidationError struct {
	Messages []string
	Raw      json.RawMessage
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("generated plan rejected: %s", strings.Join(e.Messages, "; "))
}
