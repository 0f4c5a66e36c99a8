package port

import (
	"context"
	"time"
)

// DocumentImage is an uploaded document file addressed by its object key.
type DocumentImage struct {
	Key         string
	ContentType string
	Data        []byte
}

// ImageStore keeps uploaded document images in one bucket.
type ImageStore interface {
	Put(ctx context.Context, img DocumentImage) error
	Remove(ctx context.Context, key string) error
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}
