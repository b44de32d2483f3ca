package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/fulboost/fulboost-client/internal/client"
)

// printJSON writes an API payload indented, or as is when it is not JSON
func printJSON(w io.Writer, payload json.RawMessage) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, payload, "", "  "); err != nil {
		_, err = fmt.Fprintln(w, string(payload))
		return err
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(w)
	return err
}

// jsonArg parses a --data flag; an empty value is an empty object
func jsonArg(raw string) (json.RawMessage, error) {
	if strings.TrimSpace(raw) == "" {
		return json.RawMessage(`{}`), nil
	}
	if raw == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading data from stdin: %w", err)
		}
		raw = string(data)
	}
	if !json.Valid([]byte(raw)) {
		return nil, fmt.Errorf("--data is not valid JSON")
	}
	return json.RawMessage(raw), nil
}

// queryArgs turns repeated key=value flags into query parameters
func queryArgs(pairs []string) (url.Values, error) {
	values := url.Values{}
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid parameter %q, expected key=value", p)
		}
		values.Add(k, v)
	}
	return values, nil
}

// openFile opens a local file for upload. The caller closes it once the request has been sent.
func openFile(path string) (*client.File, func(), error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return &client.File{Name: filepath.Base(path), Reader: f}, func() { _ = f.Close() }, nil
}
