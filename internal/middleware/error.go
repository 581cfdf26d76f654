package middleware

// ErrorResponse is the standardized error body returned by middleware that
// short-circuits a request.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	TraceID string `json:"trace_id,omitempty"`
}
