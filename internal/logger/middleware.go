package logger

import (
	"log/slog"
	"net/http"
	"time"
)

// RequestIDHeader identifies an outgoing request in the client and server logs
const RequestIDHeader = "X-Request-ID"

// RoundTripperFunc adapts a function to http.RoundTripper
type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

/*
RequestLogging wraps an http.RoundTripper and logs each exchange with the API:

 1. a debug "request" entry when the request is sent (method, url, headers).
    Header values go through RedactAttr like every other attribute, so bearer tokens are never written.

 2. a "request completed" entry once the response headers arrive.
    The level follows the status: error for 5xx or transport failures, warn for 4xx, info otherwise.
    Attributes added with ContextWithLogAttrs are included.
*/
func RequestLogging(logger *slog.Logger) func(http.RoundTripper) http.RoundTripper {
	return func(next http.RoundTripper) http.RoundTripper {
		if next == nil {
			next = http.DefaultTransport
		}
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			ctx := r.Context()
			start := time.Now()
			requestID := r.Header.Get(RequestIDHeader)

			if logger.Enabled(ctx, slog.LevelDebug) {
				logger.LogAttrs(ctx, slog.LevelDebug, "request",
					slog.String("type", "HTTP"),
					slog.String("request_id", requestID),
					slog.String("method", r.Method),
					slog.String("url", r.URL.String()),
					headerAttrs(r.Header),
				)
			}

			res, err := next.RoundTrip(r)

			logAttrs := []slog.Attr{
				slog.String("type", "HTTP"),
				slog.String("request_id", requestID),
				slog.String("method", r.Method),
				slog.String("host", r.URL.Host),
				slog.String("path", r.URL.Path),
			}

			logAttrs = append(logAttrs, ContextLogAttrs(ctx)...)

			if err != nil {
				logAttrs = append(logAttrs,
					slog.Duration("duration", time.Since(start)),
					slog.String("error", err.Error()),
				)
				logger.LogAttrs(ctx, slog.LevelError, "request failed", logAttrs...)
				return nil, err
			}

			logAttrs = append(logAttrs,
				slog.Int("status", res.StatusCode),
				slog.Duration("duration", time.Since(start)),
				slog.Int64("bytes", res.ContentLength),
			)

			switch {
			case res.StatusCode >= 500:
				logger.LogAttrs(ctx, slog.LevelError, "request completed", logAttrs...)
			case res.StatusCode >= 400:
				logger.LogAttrs(ctx, slog.LevelWarn, "request completed", logAttrs...)
			default:
				logger.LogAttrs(ctx, slog.LevelInfo, "request completed", logAttrs...)
			}

			return res, nil
		})
	}
}

func headerAttrs(h http.Header) slog.Attr {
	attrs := make([]any, 0, len(h))
	for name, values := range h {
		if len(values) == 0 {
			continue
		}
		attrs = append(attrs, slog.String(name, values[0]))
	}
	return slog.Group("headers", attrs...)
}
