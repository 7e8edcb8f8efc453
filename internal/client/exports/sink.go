// Package exports writes exported report files somewhere durable: the local
// filesystem or an S3-compatible bucket.
package exports

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/dropanalyzer/internal/client/client"
	"github.com/gabriel-vasile/mimetype"
)

type Sink interface {
	// Write stores blob and returns its location (a path or s3:// URL).
	Write(ctx context.Context, format string, blob *client.Blob) (string, error)
}

// extension maps an export format (json or csv) to a file extension.
func extension(format string) string {
	return "." + strings.ToLower(format)
}

// contentType is the server's Content-Type, or a detected one when the
// response carried none.
func contentType(blob *client.Blob) string {
	if blob.ContentType != "" {
		return blob.ContentType
	}
	return mimetype.Detect(blob.Data).String()
}

func baseContentType(ct string) string {
	base, _, _ := strings.Cut(ct, ";")
	return strings.TrimSpace(base)
}
