package storage

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gofiber/fiber/v2/log"
)

// Client wraps the S3 client for document and image storage
type Client struct {
	s3Client *s3.Client
	config   *Config
}

var (
	globalClient *Client
	clientOnce   sync.Once
)

// NewClient creates a new S3 storage client
func NewClient(cfg *Config) (*Client, error) {
	if !cfg.IsEnabled() {
		return nil, fmt.Errorf("S3 storage is disabled")
	}

	awsConfig, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.EndpointURL)
			o.UsePathStyle = true
		}
	})

	client := &Client{
		s3Client: s3Client,
		config:   cfg,
	}

	log.Infof("[Storage] S3 client initialized for bucket: %s", cfg.BucketName)
	return client, nil
}

// GetClient returns the shared storage client, or nil when storage is
// disabled or misconfigured.
func GetClient() *Client {
	clientOnce.Do(func() {
		cfg, err := LoadConfig()
		if err != nil {
			log.Errorf("[Storage] invalid configuration: %v", err)
			return
		}
		if !cfg.IsEnabled() {
			return
		}
		client, err := NewClient(cfg)
		if err != nil {
			log.Errorf("[Storage] client init failed: %v", err)
			return
		}
		globalClient = client
	})
	return globalClient
}

// Config exposes the client configuration for key building.
func (c *Client) Config() *Config {
	return c.config
}

// Upload stores raw bytes under the given object key and returns the public
// URL of the object.
func (c *Client) Upload(ctx context.Context, objectKey string, data []byte) (string, error) {
	_, err := c.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.config.BucketName),
		Key:           aws.String(objectKey),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentTypeFor(objectKey)),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", objectKey, err)
	}
	return c.config.PublicURL(objectKey), nil
}

// Delete removes an object.
func (c *Client) Delete(ctx context.Context, objectKey string) error {
	_, err := c.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.config.BucketName),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", objectKey, err)
	}
	return nil
}

func contentTypeFor(objectKey string) string {
	switch strings.ToLower(filepath.Ext(objectKey)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".pdf":
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}
