// Package s3 uploads rendered packs to object storage through pre-signed PUT
// URLs. No credentials are held here; the URL carries the authorisation.
package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/specialistvlad/visapack/internal/ctxlog"
)

// Uploader performs pre-signed uploads over a shared HTTP client so that TCP
// connections are reused with the provider adapters.
type Uploader struct {
	client *http.Client
}

// Result describes a finished upload.
type Result struct {
	Status string
	Size   int64
	ETag   string
}

// NewUploader returns an uploader backed by client, or by
// http.DefaultClient when client is nil.
func NewUploader(client *http.Client) *Uploader {
	if client == nil {
		client = http.DefaultClient
	}
	return &Uploader{client: client}
}

// Upload PUTs body to uploadURL with the given content type.
func (u *Uploader) Upload(ctx context.Context, uploadURL, contentType string, body []byte) (*Result, error) {
	return u.put(ctx, uploadURL, contentType, bytes.NewReader(body), int64(len(body)))
}

// UploadFile PUTs the file at path to uploadURL. The content type is derived
// from the file extension.
func (u *Uploader) UploadFile(ctx context.Context, path, uploadURL string) (*Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open source file '%s': %w", path, err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to get file stats for '%s': %w", path, err)
	}

	return u.put(ctx, uploadURL, ContentTypeFor(path), file, stat.Size())
}

// ContentTypeFor returns the MIME type for path's extension, falling back to
// application/octet-stream.
func ContentTypeFor(path string) string {
	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return contentType
}

func (u *Uploader) put(ctx context.Context, uploadURL, contentType string, body io.Reader, size int64) (*Result, error) {
	logger := ctxlog.FromContext(ctx).With("action", "upload")

	if uploadURL == "" {
		return nil, fmt.Errorf("upload url is empty")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = size

	logger.Info("Uploading pack to object storage.", "size", size, "contentType", contentType)

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute upload request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("upload failed with status: %s", resp.Status)
	}

	logger.Info("Successfully uploaded pack.", "status", resp.Status)
	return &Result{Status: resp.Status, Size: size, ETag: resp.Header.Get("ETag")}, nil
}
