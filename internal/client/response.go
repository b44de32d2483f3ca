package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

// Response is the envelope returned by the transport for any status in [200,500).
type Response struct {
	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte

	// JSON is false when the body is empty or could not be parsed; it is then treated as raw text
	JSON bool
}

func newResponse(res *http.Response, body []byte) *Response {
	return &Response{
		StatusCode: res.StatusCode,
		Status:     res.Status,
		Header:     res.Header,
		Body:       body,
		JSON:       len(bytes.TrimSpace(body)) > 0 && json.Valid(body),
	}
}

// OK reports a 2xx status
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Payload returns the parsed body, or the raw text as a JSON string when the body is not JSON
func (r *Response) Payload() json.RawMessage {
	if r.JSON {
		return json.RawMessage(r.Body)
	}
	text, _ := json.Marshal(string(r.Body))
	return text
}

// Data returns the `data` field of the payload when present, otherwise the payload itself
func (r *Response) Data() json.RawMessage {
	if data, ok := r.field("data"); ok {
		return data
	}
	return r.Payload()
}

// field returns a top level member of a JSON object body
func (r *Response) field(name string) (json.RawMessage, bool) {
	if !r.JSON {
		return nil, false
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(r.Body, &obj); err != nil {
		return nil, false
	}
	v, ok := obj[name]
	return v, ok
}

// stringField returns a top level string member, or ""
func (r *Response) stringField(name string) string {
	raw, ok := r.field(name)
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// backendMessage is the error text reported by the API, if any
func (r *Response) backendMessage() string {
	if msg := r.stringField("message"); msg != "" {
		return msg
	}
	return r.stringField("error")
}

// Decode unmarshals a payload returned by the client into T
func Decode[T any](raw json.RawMessage) (T, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("decoding payload: %w", err)
	}
	return v, nil
}
