// Package storage stores user-submitted files, currently only deposit
// screenshots, on Cloudflare R2.
package storage

import (
	"context"
	"io"
)

// UploadResult describes a stored object.
type UploadResult struct {
	Key      string `json:"key"`
	Location string `json:"location"`
}

// FileUploader abstracts the object store so handlers and tests do not depend
// on the R2 client.
type FileUploader interface {
	Upload(ctx context.Context, key, contentType string, reader io.Reader) (*UploadResult, error)
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}
