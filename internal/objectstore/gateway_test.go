package objectstore

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/nutridry/storefront-backend/internal/awsapi"
	"github.com/nutridry/storefront-backend/internal/credentials"
)

type fakeS3 struct {
	putInput  *s3.PutObjectInput
	putErr    error
	delInput  *s3.DeleteObjectInput
	delErr    error
	headCalls int
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.putInput = params
	if f.putErr != nil {
		return nil, f.putErr
	}
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.delInput = params
	if f.delErr != nil {
		return nil, f.delErr
	}
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	f.headCalls++
	return nil, &s3types.NotFound{}
}

func newTestGateway(fake *fakeS3) *Gateway {
	g := New("public-images", "ap-south-1")
	g.newClient = func(credentials.ScopedCredentials) awsapi.S3API { return fake }
	g.waitTimeout = 10 * time.Second
	return g
}

func TestPut_ReturnsEscapedPublicURL(t *testing.T) {
	fake := &fakeS3{}
	g := newTestGateway(fake)

	url, err := g.Put(context.Background(), credentials.ScopedCredentials{}, "categories-images/Dehydrated Fruits", []byte("jpeg-bytes"), "image/jpeg", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "https://public-images.s3.ap-south-1.amazonaws.com/categories-images%2FDehydrated%20Fruits"
	if url != want {
		t.Fatalf("url mismatch:\n got %s\nwant %s", url, want)
	}
	if fake.putInput.ACL != s3types.ObjectCannedACLPublicRead {
		t.Fatalf("expected public-read ACL, got %v", fake.putInput.ACL)
	}
	body, _ := io.ReadAll(fake.putInput.Body)
	if string(body) != "jpeg-bytes" {
		t.Fatalf("body mismatch: %q", body)
	}
}

func TestPut_PrivateOmitsACL(t *testing.T) {
	fake := &fakeS3{}
	g := newTestGateway(fake)

	if _, err := g.Put(context.Background(), credentials.ScopedCredentials{}, "k", nil, "image/jpeg", false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fake.putInput.ACL != "" {
		t.Fatalf("expected no ACL, got %v", fake.putInput.ACL)
	}
}

func TestPut_ErrorTaxonomy(t *testing.T) {
	cases := []struct {
		name    string
		putErr  error
		wantErr error
	}{
		{"too large", &smithy.GenericAPIError{Code: "EntityTooLarge", Message: "too large"}, ErrObjectTooLarge},
		{"missing bucket", &smithy.GenericAPIError{Code: "NoSuchBucket", Message: "nope"}, ErrBucketNotFound},
		{"network failure", errors.New("connection reset"), ErrTransient},
	}

	for _, tc := range cases {
		fake := &fakeS3{putErr: tc.putErr}
		g := newTestGateway(fake)

		_, err := g.Put(context.Background(), credentials.ScopedCredentials{}, "k", nil, "image/jpeg", true)
		if !errors.Is(err, tc.wantErr) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.wantErr, err)
		}
		// the provider cause must remain inspectable
		if tc.putErr != nil && !errors.Is(err, tc.putErr) {
			t.Fatalf("%s: cause not wrapped: %v", tc.name, err)
		}
	}
}

func TestDelete_WaitsForAbsence(t *testing.T) {
	fake := &fakeS3{}
	g := newTestGateway(fake)

	ok, err := g.Delete(context.Background(), credentials.ScopedCredentials{}, "products-images/Trail Mix/0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("expected delete to report success")
	}
	if *fake.delInput.Key != "products-images/Trail Mix/0" {
		t.Fatalf("delete key mismatch: %s", *fake.delInput.Key)
	}
	if fake.headCalls == 0 {
		t.Fatalf("expected existence check after delete")
	}
}

func TestDelete_ProviderFailure(t *testing.T) {
	fake := &fakeS3{delErr: &smithy.GenericAPIError{Code: "NoSuchBucket"}}
	g := newTestGateway(fake)

	ok, err := g.Delete(context.Background(), credentials.ScopedCredentials{}, "k")
	if ok {
		t.Fatalf("expected failure")
	}
	if !errors.Is(err, ErrBucketNotFound) {
		t.Fatalf("expected ErrBucketNotFound, got %v", err)
	}
}
