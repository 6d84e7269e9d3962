package storage

import (
	"errors"
	"fmt"
	"time"

	"github.com/marlon-leasing/marlon/internal/pkg/env"
)

// Config holds the S3 object storage configuration. One bucket carries both
// order documents (identity cards, tax bundles, contracts) and product
// images.
type Config struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	BucketName      string
	EndpointURL     string // Optional for S3-compatible services
	PublicBaseURL   string // Base URL product images are served from
	Enabled         bool
}

// LoadConfig loads the storage configuration from environment variables
func LoadConfig() (*Config, error) {
	config := &Config{
		AccessKeyID:     env.GetEnv("S3_ACCESS_KEY_ID", ""),
		SecretAccessKey: env.GetEnv("S3_SECRET_ACCESS_KEY", ""),
		Region:          env.GetEnv("S3_REGION", "eu-west-3"),
		BucketName:      env.GetEnv("S3_BUCKET_NAME", ""),
		EndpointURL:     env.GetEnv("S3_ENDPOINT_URL", ""),
		PublicBaseURL:   env.GetEnv("S3_PUBLIC_BASE_URL", ""),
		Enabled:         env.GetEnv("S3_STORAGE_ENABLED", "false") == "true",
	}

	if config.Enabled {
		if config.AccessKeyID == "" {
			return nil, errors.New("S3_ACCESS_KEY_ID is required when S3 storage is enabled")
		}
		if config.SecretAccessKey == "" {
			return nil, errors.New("S3_SECRET_ACCESS_KEY is required when S3 storage is enabled")
		}
		if config.BucketName == "" {
			return nil, errors.New("S3_BUCKET_NAME is required when S3 storage is enabled")
		}
	}

	return config, nil
}

// IsEnabled returns true if S3 storage is configured
func (c *Config) IsEnabled() bool {
	return c.Enabled
}

// DocumentKey builds the object key for an order document.
// Format: orders/<orderID>/<docType>/<timestamp>_<filename>
func (c *Config) DocumentKey(orderID uint, docType, filename string) string {
	return fmt.Sprintf("orders/%d/%s/%d_%s", orderID, docType, time.Now().Unix(), filename)
}

// ProductImageKey builds the object key for a product image.
func (c *Config) ProductImageKey(productID uint, filename string) string {
	return fmt.Sprintf("products/%d/%d_%s", productID, time.Now().Unix(), filename)
}

// PublicURL resolves the browsable URL of an uploaded object.
func (c *Config) PublicURL(objectKey string) string {
	if c.PublicBaseURL != "" {
		return fmt.Sprintf("%s/%s", c.PublicBaseURL, objectKey)
	}
	if c.EndpointURL != "" {
		return fmt.Sprintf("%s/%s/%s", c.EndpointURL, c.BucketName, objectKey)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", c.BucketName, c.Region, objectKey)
}
