package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
)

// Body is an outgoing request payload together with its encoding.
type Body interface {
	Encode() (r io.Reader, contentType string, err error)
}

type jsonBody struct {
	v any
}

// JSON encodes v as the request body. A nil v sends no body.
func JSON(v any) Body {
	return jsonBody{v: v}
}

func (b jsonBody) Encode() (io.Reader, string, error) {
	if b.v == nil {
		return nil, "", nil
	}
	data, err := json.Marshal(b.v)
	if err != nil {
		return nil, "", fmt.Errorf("encoding JSON body: %w", err)
	}
	return bytes.NewReader(data), "application/json", nil
}

// File is a named upload
type File struct {
	Name   string
	Reader io.Reader
}

type formField struct {
	name  string
	value string
}

type formFile struct {
	field string
	file  File
}

// Form is a multipart/form-data payload built by the caller.
// File readers are consumed when the request is sent, so a Form is single use.
type Form struct {
	fields []formField
	files  []formFile
}

func NewForm() *Form {
	return &Form{}
}

// AddField appends a text field
func (f *Form) AddField(name, value string) *Form {
	f.fields = append(f.fields, formField{name: name, value: value})
	return f
}

// AddFile appends a file part under field
func (f *Form) AddFile(field string, file File) *Form {
	f.files = append(f.files, formFile{field: field, file: file})
	return f
}

func (f *Form) Encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, fld := range f.fields {
		if err := w.WriteField(fld.name, fld.value); err != nil {
			return nil, "", fmt.Errorf("writing form field %s: %w", fld.name, err)
		}
	}

	for _, ff := range f.files {
		name := ff.file.Name
		if name == "" {
			name = "upload"
		}
		part, err := w.CreateFormFile(ff.field, name)
		if err != nil {
			return nil, "", fmt.Errorf("creating form file %s: %w", ff.field, err)
		}
		if ff.file.Reader != nil {
			if _, err := io.Copy(part, ff.file.Reader); err != nil {
				return nil, "", fmt.Errorf("copying form file %s: %w", name, err)
			}
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("closing multipart writer: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
