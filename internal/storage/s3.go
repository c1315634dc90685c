package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/spec-kit/request-tracker/internal/config"
)

// ObjectStore persists attachment bytes and returns a fetchable URL.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, body []byte) (string, error)
}

type s3Store struct {
	client *s3.Client
	cfg    config.S3Config
}

// NewS3Store builds an S3-backed store from ambient AWS credentials.
func NewS3Store(ctx context.Context, cfg config.S3Config) (ObjectStore, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &s3Store{client: s3.NewFromConfig(awsCfg), cfg: cfg}, nil
}

func (s *s3Store) Put(ctx context.Context, key, contentType string, body []byte) (string, error) {
	objectKey := key
	if s.cfg.KeyPrefix != "" {
		objectKey = s.cfg.KeyPrefix + "/" + key
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", objectKey, err)
	}

	if s.cfg.PublicRead {
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, objectKey), nil
	}
	return s.presignURL(ctx, objectKey)
}

func (s *s3Store) presignURL(ctx context.Context, objectKey string) (string, error) {
	expiry := time.Duration(s.cfg.PresignExpiryMins) * time.Minute
	if expiry <= 0 {
		expiry = 30 * time.Minute
	}
	presigner := s3.NewPresignClient(s.client)
	result, err := presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(objectKey),
	}, s3.WithPresignExpires(expiry))
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", objectKey, err)
	}
	return result.URL, nil
}
