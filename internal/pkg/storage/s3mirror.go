package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/NewsFox/internal/pkg/env"
)

// MirrorConfig holds the S3 mirror configuration
type MirrorConfig struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	BucketName      string
	EndpointURL     string // Optional for S3-compatible services
	Enabled         bool
}

// LoadMirrorConfig loads the S3 mirror configuration from environment variables
func LoadMirrorConfig() (*MirrorConfig, error) {
	cfg := &MirrorConfig{
		AccessKeyID:     env.GetEnv("S3_ACCESS_KEY_ID", ""),
		SecretAccessKey: env.GetEnv("S3_SECRET_ACCESS_KEY", ""),
		Region:          env.GetEnv("S3_REGION", "us-east-1"),
		BucketName:      env.GetEnv("S3_BUCKET_NAME", ""),
		EndpointURL:     env.GetEnv("S3_ENDPOINT_URL", ""),
		Enabled:         env.GetEnvBool("S3_MIRROR_ENABLED", false),
	}

	if cfg.Enabled {
		if cfg.AccessKeyID == "" {
			return nil, errors.New("S3_ACCESS_KEY_ID is required when the S3 mirror is enabled")
		}
		if cfg.SecretAccessKey == "" {
			return nil, errors.New("S3_SECRET_ACCESS_KEY is required when the S3 mirror is enabled")
		}
		if cfg.BucketName == "" {
			return nil, errors.New("S3_BUCKET_NAME is required when the S3 mirror is enabled")
		}
	}

	return cfg, nil
}

// Mirror copies stored uploads to an S3 bucket as an off-site replica.
// Uploads succeed even when the mirror is unreachable; failures are logged.
type Mirror struct {
	client *s3.Client
	config *MirrorConfig
}

// NewMirror creates an S3 mirror client, or nil when mirroring is disabled.
func NewMirror(cfg *MirrorConfig) (*Mirror, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.EndpointURL)
			// S3-compatible services (MinIO, B2) need path-style URLs
			o.UsePathStyle = true
			o.UseAccelerate = false
		}
	})

	log.Infof("[S3Mirror] initialized for bucket: %s", cfg.BucketName)
	return &Mirror{client: client, config: cfg}, nil
}

// Upload copies the raw bytes to the bucket under "media/<objectKey>".
func (m *Mirror) Upload(ctx context.Context, objectKey, contentType string, data []byte) error {
	_, err := m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(m.config.BucketName),
		Key:         aws.String("media/" + objectKey),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to mirror %s: %w", objectKey, err)
	}
	return nil
}
