// Package minio stores document images in a MinIO server.
package minio

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"docanalyzer/internal/config"
	"docanalyzer/internal/port"
)

// Client implements port.ImageStore on one MinIO bucket.
type Client struct {
	client *minio.Client
	bucket string
	region string
}

// NewClient prepares a MinIO client for bucket. It performs no network calls.
func NewClient(cfg *config.MinioConfig, bucket string) (*Client, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("minio.NewClient: %w", err)
	}
	return &Client{client: client, bucket: bucket, region: cfg.Region}, nil
}

var _ port.ImageStore = (*Client)(nil)

// EnsureBucket creates the bucket if it does not exist yet.
func (c *Client) EnsureBucket(ctx context.Context) error {
	exists, err := c.client.BucketExists(ctx, c.bucket)
	if err != nil {
		return fmt.Errorf("minio.EnsureBucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := c.client.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{Region: c.region}); err != nil {
		return fmt.Errorf("minio.EnsureBucket: creating %s: %w", c.bucket, err)
	}
	return nil
}

func (c *Client) Put(ctx context.Context, img port.DocumentImage) error {
	_, err := c.client.PutObject(ctx, c.bucket, img.Key, bytes.NewReader(img.Data), int64(len(img.Data)),
		minio.PutObjectOptions{ContentType: img.ContentType})
	if err != nil {
		return fmt.Errorf("minio.Put %s: %w", img.Key, err)
	}
	return nil
}

func (c *Client) Remove(ctx context.Context, key string) error {
	if err := c.client.RemoveObject(ctx, c.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("minio.Remove %s: %w", key, err)
	}
	return nil
}

func (c *Client) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	u, err := c.client.PresignedGetObject(ctx, c.bucket, key, ttl, nil)
	if err != nil {
		return "", fmt.Errorf("minio.SignedURL %s: %w", key, err)
	}
	return u.String(), nil
}
