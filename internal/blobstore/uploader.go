// Package blobstore implements the remote object storage capability: pushing
// device-local files and inline-encoded images to S3-compatible storage
// under deterministic keys.
package blobstore

import "context"

// Uploader pushes one local asset and returns its durable URL. Repeated
// calls with the same (containerID, pathKey) overwrite the same object, so
// re-running a submission attempt cannot create duplicates.
type Uploader interface {
	Upload(ctx context.Context, localURI, containerID, pathKey string) (string, error)
}
