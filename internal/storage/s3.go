package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"warehouse-backend/internal/config"
)

// PhotoStore uploads packer photos to an S3-compatible bucket (R2 in
// production). Nil when photos are not configured; callers must check
// Enabled before using it.
type PhotoStore struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

func NewPhotoStore(ctx context.Context, cfg *config.Config) (*PhotoStore, error) {
	if !cfg.Photos.Enabled {
		return nil, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.Photos.AccessKey,
			cfg.Photos.SecretKey,
			"",
		)),
		awsconfig.WithRegion(cfg.Photos.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to configure photo store: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Photos.Endpoint)
	})

	return &PhotoStore{
		client:    client,
		bucket:    cfg.Photos.Bucket,
		publicURL: strings.TrimRight(cfg.Photos.PublicURL, "/"),
	}, nil
}

// Upload stores one photo and returns its public URL.
func (p *PhotoStore) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload photo %s: %w", key, err)
	}

	return p.publicURL + "/" + key, nil
}

// Delete removes a photo by key. Missing objects are not an error.
func (p *PhotoStore) Delete(ctx context.Context, key string) error {
	_, err := p.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete photo %s: %w", key, err)
	}
	return nil
}
