package types

// SuccessEnvelope wraps every successful storefront body under "data".
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the public shape of a failed storefront request. RequestID
// repeats the X-Request-Id header so a customer report can be traced to the
// storefront and upstream logs.
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Details   any    `json:"details,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorEnvelope wraps APIError under "error".
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
