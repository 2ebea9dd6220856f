// Package s3store implements the media.Store interface against an
// S3-compatible object store (AWS S3 or MinIO).
package s3store

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/hooked-app/hooked-backend/internal/media"
)

type Store struct {
	client   *s3.Client
	endpoint string
	bucket   string
}

type Options struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
}

func New(ctx context.Context, opt Options) (*Store, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(opt.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			opt.AccessKey,
			opt.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("loading s3 config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opt.Endpoint != "" {
			o.BaseEndpoint = aws.String(opt.Endpoint)
		}
		// MinIO serves buckets on the path, not a subdomain.
		o.UsePathStyle = true
	})

	return &Store{
		client:   client,
		endpoint: strings.TrimRight(opt.Endpoint, "/"),
		bucket:   opt.Bucket,
	}, nil
}

// storageKey buckets uploads by date so the console stays navigable.
func storageKey(filename string) string {
	d := time.Now()
	return fmt.Sprintf("projects/%d/%d/%d/%v%s", d.Year(), d.Month(), d.Day(), uuid.New(), path.Ext(filename))
}

func (s *Store) Upload(ctx context.Context, data []byte, filename string) (string, error) {
	key := storageKey(filename)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return "", fmt.Errorf("image upload failed: %w", err)
	}

	return fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucket, key), nil
}

func (s *Store) Delete(ctx context.Context, imageURL string) error {
	key, err := s.keyFromURL(imageURL)
	if err != nil {
		return err
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	})
	if err != nil {
		return fmt.Errorf("image delete failed: %w", err)
	}

	return nil
}

func (s *Store) keyFromURL(imageURL string) (string, error) {
	prefix := fmt.Sprintf("%s/%s/", s.endpoint, s.bucket)
	if !strings.HasPrefix(imageURL, prefix) {
		return "", fmt.Errorf("%w: %q is not under %q", media.ErrBadImageURL, imageURL, prefix)
	}
	key := strings.TrimPrefix(imageURL, prefix)
	if key == "" {
		return "", fmt.Errorf("%w: empty object key in %q", media.ErrBadImageURL, imageURL)
	}
	return key, nil
}
