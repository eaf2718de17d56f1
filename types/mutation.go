package types

// MutationStatus discriminates the variants of MutationResult.
type MutationStatus string

const (
	// MutationInvalid means validation rejected the input; nothing was written.
	MutationInvalid MutationStatus = "invalid"
	// MutationCommitted means the record was persisted and readers were invalidated.
	MutationCommitted MutationStatus = "committed"
	// MutationFailed means validation passed but the write did not happen.
	MutationFailed MutationStatus = "failed"
)

// MutationResult is returned by every submission. Exactly one variant is populated:
// Errors and Values for MutationInvalid, Success for MutationCommitted, Reason for
// MutationFailed.
type MutationResult struct {
	Status  MutationStatus      `json:"status"`
	Success bool                `json:"success"`
	Errors  map[string][]string `json:"errors,omitempty"`
	Values  map[string]string   `json:"values,omitempty"`
	Reason  string              `json:"reason,omitempty"`
}

// Invalid builds the validation-failure variant.
func Invalid(errors map[string][]string, values map[string]string) MutationResult {
	return MutationResult{Status: MutationInvalid, Errors: errors, Values: values}
}

// Committed builds the success variant.
func Committed() MutationResult {
	return MutationResult{Status: MutationCommitted, Success: true}
}

// Failed builds the persistence-failure variant.
func Failed(reason string) MutationResult {
	return MutationResult{Status: MutationFailed, Reason: reason}
}
