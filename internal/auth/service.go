// Package auth signs users in and up against the Cognito user pool and
// serves profile lookups through an explicit TTL cache.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	idp "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	idptypes "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/nutridry/storefront-backend/internal/awsapi"
	"github.com/nutridry/storefront-backend/internal/credentials"
)

// ErrSignInFailed covers every sign-in rejection; the provider detail is
// wrapped but not exposed to clients.
var ErrSignInFailed = errors.New("sign in failed")

// Session is the result of a successful sign-in.
type Session struct {
	IDToken      string
	AccessToken  string
	RefreshToken string
	ExpiresIn    int32
}

// User is the profile attached to an access token.
type User struct {
	ID             string
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	Address        string
	ProfileImgSrc  string
	ReceiveUpdates bool
}

// SignUpInput carries the registration fields.
type SignUpInput struct {
	FirstName      string
	LastName       string
	Email          string
	Password       string
	Phone          string
	Address        string
	ReceiveUpdates bool
}

const profileCacheSize = 256

// Service wraps the user-pool client. The profile cache is an explicit
// collaborator with a TTL, not shared module state.
type Service struct {
	client   awsapi.CognitoUserAPI
	clientID string
	profiles *expirable.LRU[string, *User]
}

// NewService returns a Service whose profile lookups are cached for
// cacheTTL.
func NewService(client awsapi.CognitoUserAPI, clientID string, cacheTTL time.Duration) *Service {
	return &Service{
		client:   client,
		clientID: clientID,
		profiles: expirable.NewLRU[string, *User](profileCacheSize, nil, cacheTTL),
	}
}

// SignIn authenticates email/password and returns the session tokens.
func (s *Service) SignIn(ctx context.Context, email, password string) (*Session, error) {
	out, err := s.client.InitiateAuth(ctx, &idp.InitiateAuthInput{
		AuthFlow: idptypes.AuthFlowTypeUserPasswordAuth,
		ClientId: &s.clientID,
		AuthParameters: map[string]string{
			"USERNAME": email,
			"PASSWORD": password,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSignInFailed, err)
	}
	if out.AuthenticationResult == nil {
		return nil, fmt.Errorf("%w: challenge flow not supported", ErrSignInFailed)
	}

	r := out.AuthenticationResult
	return &Session{
		IDToken:      sdkaws.ToString(r.IdToken),
		AccessToken:  sdkaws.ToString(r.AccessToken),
		RefreshToken: sdkaws.ToString(r.RefreshToken),
		ExpiresIn:    r.ExpiresIn,
	}, nil
}

// SignUp registers the user with the standard attributes and signs them in.
func (s *Service) SignUp(ctx context.Context, in SignUpInput) (*Session, error) {
	attr := func(name, value string) idptypes.AttributeType {
		return idptypes.AttributeType{Name: &name, Value: &value}
	}

	_, err := s.client.SignUp(ctx, &idp.SignUpInput{
		ClientId: &s.clientID,
		Username: &in.Email,
		Password: &in.Password,
		UserAttributes: []idptypes.AttributeType{
			attr("email", in.Email),
			attr("phone_number", "+"+in.Phone),
			attr("name", in.FirstName+" "+in.LastName),
			attr("profile", fmt.Sprintf("%t", in.ReceiveUpdates)),
			attr("address", in.Address),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("sign up: %w", err)
	}

	return s.SignIn(ctx, in.Email, in.Password)
}

// Profile resolves the user behind accessToken, serving repeats from the
// cache until the TTL lapses.
func (s *Service) Profile(ctx context.Context, accessToken string) (*User, error) {
	if accessToken == "" {
		return nil, credentials.ErrNoSession
	}

	if u, ok := s.profiles.Get(accessToken); ok {
		return u, nil
	}

	out, err := s.client.GetUser(ctx, &idp.GetUserInput{AccessToken: &accessToken})
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	u := userFromAttributes(out.UserAttributes)
	s.profiles.Add(accessToken, u)
	return u, nil
}

func userFromAttributes(attrs []idptypes.AttributeType) *User {
	u := &User{}
	for _, a := range attrs {
		value := sdkaws.ToString(a.Value)
		switch sdkaws.ToString(a.Name) {
		case "sub":
			u.ID = value
		case "email":
			u.Email = value
		case "phone_number":
			u.Phone = strings.TrimPrefix(value, "+")
		case "name":
			u.FirstName, u.LastName, _ = strings.Cut(value, " ")
		case "profile":
			u.ReceiveUpdates = value == "true"
		case "address":
			u.Address = value
		case "picture":
			u.ProfileImgSrc = value
		}
	}
	return u
}
