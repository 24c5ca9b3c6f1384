// Package storage wraps the external blob-hosting provider used for invoice
// attachments. The S3 implementation works with any S3-compatible backend.
package storage

import (
	"context"
	"path"
	"strings"
)

// UploadResult describes a blob stored at the hosting provider
type UploadResult struct {
	// URL is the public address of the stored blob
	URL string
	// RemoteID is the provider-assigned identifier used to delete the blob
	RemoteID string
}

// BlobStorage is the interface for uploading and deleting invoice attachments
type BlobStorage interface {
	// Upload stores a binary payload under the invoice namespace and returns
	// its public URL and remote identifier
	Upload(ctx context.Context, filename string, data []byte) (*UploadResult, error)
	// Delete removes the blob identified by remoteID
	Delete(ctx context.Context, remoteID string) error
}

// RemoteIDFromURL derives the remote identifier of a blob from its stored URL
// by taking the last path segment and stripping its extension. It returns
// false when no identifier can be derived from a malformed URL.
func RemoteIDFromURL(rawURL string) (string, bool) {
	parts := strings.Split(rawURL, "/")
	last := parts[len(parts)-1]
	id := strings.TrimSuffix(last, path.Ext(last))
	if id == "" {
		return "", false
	}
	return id, true
}
