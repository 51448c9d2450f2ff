package storage

import (
	"bytes"
	"context"
	"fmt"

	storage_go "github.com/supabase-community/storage-go"
)

// Client wraps the Supabase storage API for raw document files. The pipeline
// treats it as opaque: paths in, bytes out.
type Client struct {
	api    *storage_go.Client
	bucket string
}

func NewClient(baseURL, apiKey, bucket string) *Client {
	return &Client{
		api:    storage_go.NewClient(baseURL, apiKey, nil),
		bucket: bucket,
	}
}

func (c *Client) Upload(ctx context.Context, path string, data []byte, contentType string) error {
	opts := storage_go.FileOptions{ContentType: &contentType}
	if _, err := c.api.UploadFile(c.bucket, path, bytes.NewReader(data), opts); err != nil {
		return fmt.Errorf("storage upload %s: %w", path, err)
	}
	return nil
}

func (c *Client) Download(ctx context.Context, path string) ([]byte, error) {
	b, err := c.api.DownloadFile(c.bucket, path)
	if err != nil {
		return nil, fmt.Errorf("storage download %s: %w", path, err)
	}
	return b, nil
}

func (c *Client) Remove(ctx context.Context, path string) error {
	if _, err := c.api.RemoveFile(c.bucket, []string{path}); err != nil {
		return fmt.Errorf("storage remove %s: %w", path, err)
	}
	return nil
}

func (c *Client) PublicURL(path string) string {
	return c.api.GetPublicUrl(c.bucket, path).SignedURL
}
