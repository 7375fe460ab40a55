package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/supabase-community/gotrue-go"
	"github.com/supabase-community/gotrue-go/types"
)

// ErrInvalidCredentials is returned when GoTrue rejects a sign-in or token.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Session is the slice of the GoTrue session the handlers care about.
type Session struct {
	AccessToken  string
	RefreshToken string
	Email        string
}

// Authenticator fronts the hosted GoTrue instance. The service layer depends
// on this interface so tests can swap in a fake.
type Authenticator interface {
	SignUp(ctx context.Context, email, password string) (Session, error)
	SignIn(ctx context.Context, email, password string) (Session, error)
	UserEmail(ctx context.Context, accessToken string) (string, error)
	SignOut(ctx context.Context, accessToken string) error
}

type gotrueAuthenticator struct {
	client gotrue.Client
}

// NewAuthenticator points a GoTrue client at the project's /auth/v1 endpoint.
func NewAuthenticator(projectURL, apiKey string) Authenticator {
	client := gotrue.New("", apiKey).
		WithCustomGoTrueURL(strings.TrimRight(projectURL, "/") + "/auth/v1")
	return &gotrueAuthenticator{client: client}
}

func (a *gotrueAuthenticator) SignUp(ctx context.Context, email, password string) (Session, error) {
	resp, err := a.client.Signup(types.SignupRequest{Email: email, Password: password})
	if err != nil {
		return Session{}, fmt.Errorf("gotrue signup: %w", err)
	}
	return Session{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		Email:        resp.User.Email,
	}, nil
}

func (a *gotrueAuthenticator) SignIn(ctx context.Context, email, password string) (Session, error) {
	resp, err := a.client.Token(types.TokenRequest{
		GrantType: "password",
		Email:     email,
		Password:  password,
	})
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	return Session{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		Email:        resp.User.Email,
	}, nil
}

func (a *gotrueAuthenticator) UserEmail(ctx context.Context, accessToken string) (string, error) {
	user, err := a.client.WithToken(accessToken).GetUser()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	return user.Email, nil
}

func (a *gotrueAuthenticator) SignOut(ctx context.Context, accessToken string) error {
	if err := a.client.WithToken(accessToken).Logout(); err != nil {
		return fmt.Errorf("gotrue logout: %w", err)
	}
	return nil
}
