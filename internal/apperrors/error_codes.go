package apperrors

// ErrorCode classifies a failure seen by the fulboost client.
// Codes are stable strings so they can be logged and matched by callers.
type ErrorCode string

const (
	ErrCodeAuthenticationFailure ErrorCode = "authentication_error"
	ErrCodeInternalError         ErrorCode = "internal_error"
	ErrCodeInvalidRequest        ErrorCode = "invalid_request"
	ErrCodeMalformedResponse     ErrorCode = "malformed_response"
	ErrCodeNetworkError          ErrorCode = "network_error"
	ErrCodeRequestRejected       ErrorCode = "request_rejected"
	ErrCodeServerError           ErrorCode = "server_error"
	ErrCodeUnauthorized          ErrorCode = "unauthorized"
)
