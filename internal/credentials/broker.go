// Package credentials exchanges a signed-in caller's identity token for
// temporary, scoped AWS credentials through a Cognito identity pool.
package credentials

import (
	"context"
	"errors"
	"fmt"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	awscreds "github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentity"

	"github.com/nutridry/storefront-backend/internal/awsapi"
)

// ErrNoSession is returned when the caller supplied no identity token.
var ErrNoSession = errors.New("no session found")

// FederationError wraps a failure of either call of the credential
// exchange. The exchange is never retried; the error is surfaced as-is.
type FederationError struct {
	Step string // "resolve identity" or "issue credentials"
	Err  error
}

func (e *FederationError) Error() string {
	return fmt.Sprintf("credential exchange failed (%s): %v", e.Step, e.Err)
}

func (e *FederationError) Unwrap() error { return e.Err }

// ScopedCredentials is a time-limited credential triple. It is owned by a
// single orchestrated operation, passed by value, and never persisted or
// logged.
type ScopedCredentials struct {
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	Expiration      time.Time
}

// Provider adapts the credentials for SDK client construction.
func (c ScopedCredentials) Provider() sdkaws.CredentialsProvider {
	return awscreds.NewStaticCredentialsProvider(c.AccessKeyID, c.SecretAccessKey, c.SessionToken)
}

// Broker performs the two-call exchange: identity token -> federated
// identity id -> scoped credentials.
type Broker struct {
	client         awsapi.CognitoIdentityAPI
	identityPoolID string
	loginProvider  string
}

// NewBroker returns a Broker bound to an identity pool. region and
// userPoolID identify the user pool the identity token was issued by.
func NewBroker(client awsapi.CognitoIdentityAPI, region, userPoolID, identityPoolID string) *Broker {
	return &Broker{
		client:         client,
		identityPoolID: identityPoolID,
		loginProvider:  fmt.Sprintf("cognito-idp.%s.amazonaws.com/%s", region, userPoolID),
	}
}

// Acquire exchanges identityToken for scoped credentials. It returns
// ErrNoSession for an empty token and a *FederationError when either
// exchange call fails.
func (b *Broker) Acquire(ctx context.Context, identityToken string) (ScopedCredentials, error) {
	if identityToken == "" {
		return ScopedCredentials{}, ErrNoSession
	}

	logins := map[string]string{b.loginProvider: identityToken}

	idOut, err := b.client.GetId(ctx, &cognitoidentity.GetIdInput{
		IdentityPoolId: &b.identityPoolID,
		Logins:         logins,
	})
	if err != nil {
		return ScopedCredentials{}, &FederationError{Step: "resolve identity", Err: err}
	}

	credsOut, err := b.client.GetCredentialsForIdentity(ctx, &cognitoidentity.GetCredentialsForIdentityInput{
		IdentityId: idOut.IdentityId,
		Logins:     logins,
	})
	if err != nil {
		return ScopedCredentials{}, &FederationError{Step: "issue credentials", Err: err}
	}
	if credsOut.Credentials == nil {
		return ScopedCredentials{}, &FederationError{Step: "issue credentials", Err: errors.New("no credentials in response")}
	}

	c := credsOut.Credentials
	return ScopedCredentials{
		AccessKeyID:     sdkaws.ToString(c.AccessKeyId),
		SecretAccessKey: sdkaws.ToString(c.SecretKey),
		SessionToken:    sdkaws.ToString(c.SessionToken),
		Expiration:      sdkaws.ToTime(c.Expiration),
	}, nil
}
