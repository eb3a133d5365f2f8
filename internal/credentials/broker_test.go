package credentials

import (
	"context"
	"errors"
	"testing"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentity"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentity/types"
)

type fakeIdentity struct {
	getIDCalls    int
	getCredsCalls int

	getIDLogins map[string]string
	getIDErr    error
	credsErr    error
	credsOut    *types.Credentials
}

func (f *fakeIdentity) GetId(ctx context.Context, params *cognitoidentity.GetIdInput, optFns ...func(*cognitoidentity.Options)) (*cognitoidentity.GetIdOutput, error) {
	f.getIDCalls++
	f.getIDLogins = params.Logins
	if f.getIDErr != nil {
		return nil, f.getIDErr
	}
	return &cognitoidentity.GetIdOutput{IdentityId: sdkaws.String("identity-1")}, nil
}

func (f *fakeIdentity) GetCredentialsForIdentity(ctx context.Context, params *cognitoidentity.GetCredentialsForIdentityInput, optFns ...func(*cognitoidentity.Options)) (*cognitoidentity.GetCredentialsForIdentityOutput, error) {
	f.getCredsCalls++
	if f.credsErr != nil {
		return nil, f.credsErr
	}
	return &cognitoidentity.GetCredentialsForIdentityOutput{Credentials: f.credsOut}, nil
}

func TestAcquire_Success(t *testing.T) {
	expiry := time.Now().Add(time.Hour)
	fake := &fakeIdentity{
		credsOut: &types.Credentials{
			AccessKeyId:  sdkaws.String("AKIA-test"),
			SecretKey:    sdkaws.String("secret"),
			SessionToken: sdkaws.String("session"),
			Expiration:   &expiry,
		},
	}
	b := NewBroker(fake, "ap-south-1", "ap-south-1_pool", "ap-south-1:identity-pool")

	creds, err := b.Acquire(context.Background(), "id-token")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if creds.AccessKeyID != "AKIA-test" || creds.SecretAccessKey != "secret" || creds.SessionToken != "session" {
		t.Fatalf("credentials not mapped: %+v", creds)
	}
	if got := fake.getIDLogins["cognito-idp.ap-south-1.amazonaws.com/ap-south-1_pool"]; got != "id-token" {
		t.Fatalf("login provider key wrong, logins: %v", fake.getIDLogins)
	}
}

func TestAcquire_EmptyToken(t *testing.T) {
	fake := &fakeIdentity{}
	b := NewBroker(fake, "ap-south-1", "pool", "identity-pool")

	_, err := b.Acquire(context.Background(), "")
	if !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
	if fake.getIDCalls != 0 {
		t.Fatalf("exchange must not be attempted without a token")
	}
}

func TestAcquire_ExchangeFailures(t *testing.T) {
	cause := errors.New("identity pool disabled")

	// first call fails
	fake := &fakeIdentity{getIDErr: cause}
	b := NewBroker(fake, "r", "up", "ip")
	_, err := b.Acquire(context.Background(), "tok")
	var fed *FederationError
	if !errors.As(err, &fed) {
		t.Fatalf("expected FederationError, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("cause not wrapped: %v", err)
	}
	if fake.getCredsCalls != 0 {
		t.Fatalf("second call must not run after first fails")
	}

	// second call fails
	fake = &fakeIdentity{credsErr: cause}
	b = NewBroker(fake, "r", "up", "ip")
	if _, err := b.Acquire(context.Background(), "tok"); !errors.As(err, &fed) {
		t.Fatalf("expected FederationError, got %v", err)
	}

	// empty credentials in response
	fake = &fakeIdentity{credsOut: nil}
	b = NewBroker(fake, "r", "up", "ip")
	if _, err := b.Acquire(context.Background(), "tok"); !errors.As(err, &fed) {
		t.Fatalf("expected FederationError for empty credentials, got %v", err)
	}
}
