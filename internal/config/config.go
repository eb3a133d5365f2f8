// Package config loads the typed runtime configuration from environment
// variables. Required keys fail fast at startup instead of surfacing as
// provider errors deep inside an upload.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Cognito holds the user-pool and identity-pool settings used for sign-in
// and for the federated credential exchange.
type Cognito struct {
	Region         string
	ClientID       string
	UserPoolID     string
	IdentityPoolID string
}

// S3 holds the public-images bucket settings.
type S3 struct {
	Region string
	Bucket string
}

// DynamoDB holds the table names for the catalog records.
type DynamoDB struct {
	Region          string
	ProductsTable   string
	CategoriesTable string
}

// Config is the full runtime configuration for the API and the reaper.
type Config struct {
	Cognito  Cognito
	S3       S3
	DynamoDB DynamoDB

	// OrphanQueueURL is the SQS queue that receives object keys whose
	// compensating delete failed.
	OrphanQueueURL string

	MaxCategoryImageBytes int64
	MaxProductImageBytes  int64

	ProfileCacheTTL time.Duration
}

const (
	defaultMaxCategoryImageBytes = 2 << 20 // 2 MiB
	defaultMaxProductImageBytes  = 5 << 20 // 5 MiB
	defaultProfileCacheTTL       = 5 * time.Minute
)

// FromEnv builds a Config from the environment. It returns an error naming
// every missing required variable rather than stopping at the first.
func FromEnv() (*Config, error) {
	var missing []string

	require := func(name string) string {
		v := os.Getenv(name)
		if v == "" {
			missing = append(missing, name)
		}
		return v
	}

	cfg := &Config{
		Cognito: Cognito{
			Region:         require("AWS_REGION"),
			ClientID:       require("AWS_CLIENT_ID"),
			UserPoolID:     require("AWS_USER_POOL_ID"),
			IdentityPoolID: require("AWS_IDENTITY_POOL_ID"),
		},
		S3: S3{
			Region: require("AWS_PUBLIC_IMAGES_BUCKET_REGION"),
			Bucket: require("AWS_PUBLIC_IMAGES_BUCKET"),
		},
		DynamoDB: DynamoDB{
			Region:          require("AWS_DYNAMO_DB_REGION"),
			ProductsTable:   require("AWS_PRODUCTS_TABLE"),
			CategoriesTable: require("AWS_CATEGORIES_TABLE"),
		},
		OrphanQueueURL:        os.Getenv("ORPHAN_QUEUE_URL"),
		MaxCategoryImageBytes: defaultMaxCategoryImageBytes,
		MaxProductImageBytes:  defaultMaxProductImageBytes,
		ProfileCacheTTL:       defaultProfileCacheTTL,
	}

	if v := os.Getenv("MAX_CATEGORY_IMAGE_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid MAX_CATEGORY_IMAGE_BYTES %q", v)
		}
		cfg.MaxCategoryImageBytes = n
	}
	if v := os.Getenv("MAX_PRODUCT_IMAGE_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid MAX_PRODUCT_IMAGE_BYTES %q", v)
		}
		cfg.MaxProductImageBytes = n
	}
	if v := os.Getenv("PROFILE_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid PROFILE_CACHE_TTL %q", v)
		}
		cfg.ProfileCacheTTL = d
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}
