package pricing

import "fmt"

// InvalidQuoteRequest reports a request that violates the quoting contract,
// such as an unknown container size or location. Callers that respect the
// catalog never see it.
type InvalidQuoteRequest struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidQuoteRequest) Error() string {
	return fmt.Sprintf("invalid quote request: %s=%q: %s", e.Field, e.Value, e.Reason)
}

func invalid(field, value, reason string) error {
	return &InvalidQuoteRequest{Field: field, Value: value, Reason: reason}
}
