// Package objectstore uploads and deletes objects in the public-images S3
// bucket under per-operation scoped credentials.
package objectstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/nutridry/storefront-backend/internal/awsapi"
	"github.com/nutridry/storefront-backend/internal/credentials"
)

// Error taxonomy. ErrObjectTooLarge and ErrBucketNotFound are terminal;
// ErrTransient may be retried by a higher layer, never here.
var (
	ErrObjectTooLarge = errors.New("object exceeds provider size ceiling")
	ErrBucketNotFound = errors.New("bucket does not exist")
	ErrTransient      = errors.New("transient object store failure")
)

// StoreError carries the taxonomy classification alongside the provider
// error so both errors.Is(err, ErrX) and the original cause survive.
type StoreError struct {
	Op   string
	Key  string
	Kind error
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s object %q: %v: %v", e.Op, e.Key, e.Kind, e.Err)
}

func (e *StoreError) Is(target error) bool { return target == e.Kind }

func (e *StoreError) Unwrap() error { return e.Err }

func classify(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "EntityTooLarge":
			return ErrObjectTooLarge
		case "NoSuchBucket":
			return ErrBucketNotFound
		}
	}
	return ErrTransient
}

const deleteWaitTimeout = 10 * time.Second

// Gateway is bound to one bucket. Service clients are built per call from
// the operation's scoped credentials; newClient is a seam for tests.
type Gateway struct {
	bucket      string
	region      string
	newClient   func(credentials.ScopedCredentials) awsapi.S3API
	waitTimeout time.Duration
}

// New returns a Gateway for bucket in region.
func New(bucket, region string) *Gateway {
	return &Gateway{
		bucket: bucket,
		region: region,
		newClient: func(creds credentials.ScopedCredentials) awsapi.S3API {
			return s3.New(s3.Options{
				Region:      region,
				Credentials: creds.Provider(),
			})
		},
		waitTimeout: deleteWaitTimeout,
	}
}

// PublicURL returns the deterministic retrieval URL for key.
func (g *Gateway) PublicURL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", g.bucket, g.region, url.PathEscape(key))
}

// Put uploads body at key and returns the public URL. public controls the
// canned ACL.
func (g *Gateway) Put(ctx context.Context, creds credentials.ScopedCredentials, key string, body []byte, contentType string, public bool) (string, error) {
	input := &s3.PutObjectInput{
		Bucket:      &g.bucket,
		Key:         &key,
		Body:        bytes.NewReader(body),
		ContentType: &contentType,
	}
	if public {
		input.ACL = s3types.ObjectCannedACLPublicRead
	}

	if _, err := g.newClient(creds).PutObject(ctx, input); err != nil {
		return "", &StoreError{Op: "put", Key: key, Kind: classify(err), Err: err}
	}

	return g.PublicURL(key), nil
}

// Delete removes the object at key and waits (bounded) until the object is
// observably absent, so compensating deletes can be treated as complete.
func (g *Gateway) Delete(ctx context.Context, creds credentials.ScopedCredentials, key string) (bool, error) {
	return DeleteWithClient(ctx, g.newClient(creds), g.bucket, key, g.waitTimeout)
}

// DeleteWithClient is Delete over an explicit client. The orphan reaper
// uses it with ambient role credentials.
func DeleteWithClient(ctx context.Context, client awsapi.S3API, bucket, key string, waitTimeout time.Duration) (bool, error) {
	_, err := client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		return false, &StoreError{Op: "delete", Key: key, Kind: classify(err), Err: err}
	}

	waiter := s3.NewObjectNotExistsWaiter(client)
	if err := waiter.Wait(ctx, &s3.HeadObjectInput{Bucket: &bucket, Key: &key}, waitTimeout); err != nil {
		return false, &StoreError{Op: "await delete of", Key: key, Kind: ErrTransient, Err: err}
	}
	return true, nil
}
