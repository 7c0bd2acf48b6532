package outbound

import (
	"context"
	"time"
)

// StorageBackendPort is the uniform capability set over artifact storage. The
// variant (local filesystem or S3) is chosen once at startup; no caller ever
// branches on it. Refs are opaque beyond their scheme tag: local backends hand
// out absolute paths under their root, the S3 backend hands out
// s3://bucket/key URIs.
type StorageBackendPort interface {
	// Put stores data under ref, creating any intermediate namespace.
	Put(ctx context.Context, ref string, data []byte, contentType string) error

	// Get returns the stored bytes, or domain.ErrRefNotFound.
	Get(ctx context.Context, ref string) ([]byte, error)

	// Exists reports whether ref resolves to a stored object.
	Exists(ctx context.Context, ref string) (bool, error)

	// ListByPrefix returns the refs of all objects under a backend-relative
	// prefix such as "cache/".
	ListByPrefix(ctx context.Context, prefix string) ([]string, error)

	// Delete removes ref. Deleting a missing object is not an error.
	Delete(ctx context.Context, ref string) error

	// URLFor returns an access URL for ref: the path itself on the local
	// backend, a presigned URL with the given ttl on S3.
	URLFor(ctx context.Context, ref string, ttl time.Duration) (string, error)

	// BuildRef composes a ref from backend-relative path parts.
	BuildRef(parts ...string) string

	// RelativeKey inverts BuildRef, returning the backend-relative key of a
	// ref issued by this backend.
	RelativeKey(ref string) (string, error)
}
