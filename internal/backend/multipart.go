package backend

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strings"
)

// File is an uploaded file forwarded to the backend.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// formField is one text field of a multipart body, kept ordered.
type formField struct {
	name  string
	value string
}

// fileField is one file part of a multipart body.
type fileField struct {
	name string
	file *File
}

func buildMultipart(fields []formField, files []fileField) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", f.name, err)
		}
	}

	for _, f := range files {
		if f.file == nil {
			continue
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			escapeQuotes(f.name), escapeQuotes(f.file.Name)))
		ct := f.file.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create part %s: %w", f.name, err)
		}
		if _, err := part.Write(f.file.Data); err != nil {
			return nil, "", fmt.Errorf("failed to write part %s: %w", f.name, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}
	return body, w.FormDataContentType(), nil
}

func multipartRequest(method, endpoint, path, token string, fields []formField, files []fileField) (request, error) {
	body, contentType, err := buildMultipart(fields, files)
	if err != nil {
		return request{}, err
	}
	return request{
		method:      method,
		endpoint:    endpoint,
		path:        path,
		token:       token,
		body:        body,
		contentType: contentType,
	}, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
