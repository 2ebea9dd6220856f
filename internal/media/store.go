// Package media abstracts the remote image host. Two backends exist: the
// Cloudinary-style signed REST API and an S3-compatible object store.
package media

import (
	"context"
	"errors"
)

// Store uploads and deletes project images on the remote media host.
type Store interface {
	// Upload stores the image bytes under the given filename and returns the
	// public URL of the hosted image.
	Upload(ctx context.Context, data []byte, filename string) (string, error)

	// Delete removes the hosted image addressed by its public URL. A URL that
	// does not match the backend's URL shape fails with ErrBadImageURL before
	// any network call.
	Delete(ctx context.Context, imageURL string) error
}

// ErrBadImageURL marks an image URL that does not match the expected media
// host URL template.
var ErrBadImageURL = errors.New("image url does not match expected media url format")
