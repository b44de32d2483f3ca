package client

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/fulboost/fulboost-client/internal/apperrors"
)

// ErrAuthenticationFailed is wrapped by the error returned when a login succeeds at the HTTP level but no token is issued
var ErrAuthenticationFailed = errors.New("authentication failed")

const genericErrorMessage = "An error occurred. Please try again."

// ClientError is the single error type returned by every client operation.
//
// StatusCode 0 = no response was received, >0 = HTTP response received.
// Message is the human-readable text for the end user, taken in order of preference from
// the API's reported message, the transport's message, or a fixed per-operation fallback.
// LogMessage carries the technical detail for logging.
type ClientError struct {
	Code       apperrors.ErrorCode `json:"code"`
	StatusCode int                 `json:"status_code"`
	Message    string              `json:"message"`
	LogMessage string              `json:"log_message"`
	Err        error               `json:"-"`
}

func (e *ClientError) Error() string {
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Err
}

// NewClientConnectionError creates a ClientError for network/connection issues (no response received)
func NewClientConnectionError(err error, fallback string) *ClientError {
	msg := fallback
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		msg = urlErr.Err.Error()
	} else if err != nil {
		msg = err.Error()
	}
	if msg == "" {
		msg = "Unable to connect. Please check your internet connection and try again."
	}

	return &ClientError{
		Code:       apperrors.ErrCodeNetworkError,
		StatusCode: 0,
		Message:    msg,
		LogMessage: fmt.Sprintf("network error: %v", err),
		Err:        err,
	}
}

// NewClientInternalError creates a ClientError for local failures, supply the error and an explanation of what was being done when the error occurred
func NewClientInternalError(err error, while string) *ClientError {
	return &ClientError{
		Code:       apperrors.ErrCodeInternalError,
		StatusCode: 0,
		Message:    genericErrorMessage,
		LogMessage: fmt.Sprintf("internal error: %v while %v", err, while),
		Err:        err,
	}
}

// NewClientPreconditionError rejects a call before anything is sent
func NewClientPreconditionError(reason string) *ClientError {
	return &ClientError{
		Code:       apperrors.ErrCodeInvalidRequest,
		StatusCode: 0,
		Message:    reason,
		LogMessage: "invalid request: " + reason,
	}
}

// NewClientMalformedResponseError is used when a successful response lacks something the operation requires
func NewClientMalformedResponseError(res *Response, cause error, fallback string) *ClientError {
	msg := res.backendMessage()
	if msg == "" {
		msg = fallback
	}

	code := apperrors.ErrCodeMalformedResponse
	if errors.Is(cause, ErrAuthenticationFailed) {
		code = apperrors.ErrCodeAuthenticationFailure
	}

	return &ClientError{
		Code:       code,
		StatusCode: res.StatusCode,
		Message:    msg,
		LogMessage: fmt.Sprintf("fulboost status %d: %v", res.StatusCode, cause),
		Err:        cause,
	}
}

// NewClientApiError creates a ClientError from a non-success response sent by the fulboost API
func NewClientApiError(res *Response, fallback string) *ClientError {
	msg := res.backendMessage()
	if msg == "" && !res.JSON {
		// the body could not be parsed, describe the failure from the status line
		msg = fmt.Sprintf("Server error: %d %s", res.StatusCode, http.StatusText(res.StatusCode))
	}
	if msg == "" {
		msg = fallback
	}
	if msg == "" {
		msg = genericErrorMessage
	}

	var code apperrors.ErrorCode
	switch {
	case res.StatusCode == http.StatusUnauthorized:
		code = apperrors.ErrCodeUnauthorized
	case res.StatusCode >= 500:
		code = apperrors.ErrCodeServerError
	default:
		code = apperrors.ErrCodeRequestRejected
	}

	logMsg := fmt.Sprintf("fulboost status %d", res.StatusCode)
	if m := res.backendMessage(); m != "" {
		logMsg += fmt.Sprintf(" - %s", m)
	}

	return &ClientError{
		Code:       code,
		StatusCode: res.StatusCode,
		Message:    msg,
		LogMessage: logMsg,
	}
}

// normalize makes sure whatever comes out of an operation is a *ClientError
func normalize(err error, fallback string) *ClientError {
	if err == nil {
		return nil
	}
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce
	}
	e := NewClientInternalError(err, fallback)
	if fallback != "" {
		e.Message = fallback
	}
	return e
}

// AsClientError unwraps err to a *ClientError
func AsClientError(err error) (*ClientError, bool) {
	var ce *ClientError
	ok := errors.As(err, &ce)
	return ce, ok
}

// IsUnauthorized reports whether the API rejected the session token
func IsUnauthorized(err error) bool {
	ce, ok := AsClientError(err)
	return ok && ce.StatusCode == http.StatusUnauthorized
}
