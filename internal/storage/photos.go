// Package storage holds inspection photos in an S3-compatible object store.
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/mertcakir/rigcheck/internal/config"
)

type PhotoStore struct {
	client *s3.Client
	bucket string
}

func NewPhotoStore(ctx context.Context, cfg *config.Config) (*PhotoStore, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.S3Region),
	}
	if cfg.S3AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load S3 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			// MinIO and friends need path-style addressing.
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	slog.Info("Photo store initialized", "bucket", cfg.S3Bucket, "region", cfg.S3Region)
	return &PhotoStore{client: client, bucket: cfg.S3Bucket}, nil
}

// PhotoKey builds the object key for one photo: inspections/<inspection>/<photo><ext>.
func PhotoKey(inspectionID, photoID, fileName string) string {
	return fmt.Sprintf("inspections/%s/%s%s", inspectionID, photoID, path.Ext(fileName))
}

func (p *PhotoStore) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error {
	_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(p.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}

// Get returns the object body and content type. The caller closes the body.
func (p *PhotoStore) Get(ctx context.Context, key string) (io.ReadCloser, string, error) {
	out, err := p.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch %s: %w", key, err)
	}
	return out.Body, aws.ToString(out.ContentType), nil
}

func (p *PhotoStore) Delete(ctx context.Context, key string) error {
	_, err := p.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}
