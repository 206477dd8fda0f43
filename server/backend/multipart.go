package backend

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strings"
)

// File is an uploaded image forwarded to the backend.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

type field struct {
	name  string
	value string
}

func (c *Client) doMultipart(ctx context.Context, method string, endpoint string, token string, fields []field, fileField string, file *File, v any) error {
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)

	for _, f := range fields {
		if err := mw.WriteField(f.name, f.value); err != nil {
			return fmt.Errorf("failed to write field %s: %w", f.name, err)
		}
	}

	if file != nil {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, escapeQuotes(fileField), escapeQuotes(file.Name)))
		contentType := file.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		header.Set("Content-Type", contentType)

		part, err := mw.CreatePart(header)
		if err != nil {
			return fmt.Errorf("failed to create file part: %w", err)
		}
		if _, err = part.Write(file.Data); err != nil {
			return fmt.Errorf("failed to write file part: %w", err)
		}
	}

	if err := mw.Close(); err != nil {
		return fmt.Errorf("failed to close multipart body: %w", err)
	}

	return c.do(ctx, method, endpoint, token, buf, mw.FormDataContentType(), v)
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
