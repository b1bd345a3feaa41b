// File: internal/platform/objectstorage/service.go
package objectstorage

import "context"

// Service abstracts the object storage backend so the image reconciler and
// its tests do not depend on a live MinIO/S3 endpoint.
type Service interface {
	// Put stores the object under key and returns its public URL.
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	// Delete removes the object under key. Deleting a missing object is not an error.
	Delete(ctx context.Context, key string) error
	// ListKeys returns all object keys under the given prefix.
	ListKeys(ctx context.Context, prefix string) ([]string, error)
	// PublicURL returns the public URL for an object key.
	PublicURL(key string) string
	// KeyFromURL maps a public URL produced by this service back to its object key.
	// Returns an empty string when the URL does not belong to this bucket.
	KeyFromURL(url string) string
}
