package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// Upload posts a single file as a multipart form under the given field
// name and returns the raw response text. Non-2xx responses classify into
// the usual taxonomy. No retries, chunking or progress reporting.
func (c *Client) Upload(ctx context.Context, url, field, filename string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		return "", fmt.Errorf("fetch: multipart form: %w", err)
	}
	if _, err := io.Copy(fw, r); err != nil {
		return "", fmt.Errorf("fetch: read upload body: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("fetch: multipart form: %w", err)
	}

	resp, err := c.Do(ctx, http.MethodPost, url, &buf,
		WithRequestHeader("Content-Type", mw.FormDataContentType()))
	if err != nil {
		return "", err
	}
	return string(resp.Body), nil
}
