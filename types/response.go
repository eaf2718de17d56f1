package types

// ErrorResponse documents the JSON body written by middleware.ErrorHandler.
type ErrorResponse struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	Code    string `json:"code"`
}
