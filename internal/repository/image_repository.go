// Package repository resolves the caller's image reference — raw bytes, a
// base64 payload, an HTTP URL, or a blob address — into decoded pixels for
// the core subsystems.
package repository

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	apperrors "go-qr-platform/internal/errors"
	"go-qr-platform/internal/storage"
)

// ImageRepository turns image references into decoded images.
type ImageRepository interface {
	FromBytes(data []byte) (image.Image, error)
	FromBase64(payload string) (image.Image, error)
	FromURL(ctx context.Context, imageURL string) (image.Image, error)
	FromBlob(ctx context.Context, blobURL string) (image.Image, error)
}

type imageRepository struct {
	fetcher storage.ImageFetcher
	blobs   storage.BlobStorage // nil when Azure is not configured
}

// NewImageRepository creates a repository over the configured fetchers.
// blobs may be nil.
func NewImageRepository(fetcher storage.ImageFetcher, blobs storage.BlobStorage) ImageRepository {
	return &imageRepository{fetcher: fetcher, blobs: blobs}
}

func (r *imageRepository) FromBytes(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, ErrUnreadableImage(nil)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrUnreadableImage(err)
	}
	return img, nil
}

func (r *imageRepository) FromBase64(payload string) (image.Image, error) {
	// Strip a data-URL prefix ("data:image/png;base64,....") if present.
	if idx := strings.Index(payload, ","); idx >= 0 {
		payload = payload[idx+1:]
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, ErrUnreadableImage(err)
	}
	return r.FromBytes(data)
}

func (r *imageRepository) FromURL(ctx context.Context, imageURL string) (image.Image, error) {
	img, err := r.fetcher.FetchImage(ctx, imageURL)
	if err != nil {
		return nil, apperrors.NewNetworkError("failed to fetch image", err)
	}
	return img, nil
}

func (r *imageRepository) FromBlob(ctx context.Context, blobURL string) (image.Image, error) {
	if r.blobs == nil {
		return nil, apperrors.NewDependencyError("blob storage is not configured", nil)
	}
	img, err := r.blobs.GetImage(ctx, blobURL)
	if err != nil {
		return nil, apperrors.NewNetworkError(fmt.Sprintf("failed to fetch blob %s", blobURL), err)
	}
	return img, nil
}
