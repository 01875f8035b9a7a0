package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/celebrelabs/celebre-backend/pkg/config"
	"google.golang.org/api/option"
)

// Token is the verified caller identity extracted from a bearer ID token.
type Token struct {
	UID    string
	Claims map[string]any
}

// AdminClaim reports whether the identity provider granted the admin custom claim.
func (t *Token) AdminClaim() bool {
	if t == nil || t.Claims == nil {
		return false
	}
	v, ok := t.Claims["admin"].(bool)
	return ok && v
}

// Verifier validates bearer ID tokens issued by the identity provider.
type Verifier interface {
	VerifyIDToken(ctx context.Context, token string) (*Token, error)
}

// Client verifies tokens against Firebase Auth.
type Client struct {
	auth *auth.Client
}

// New initializes the Firebase app and its auth client.
func New(ctx context.Context, cfg config.GCPConfig) (*Client, error) {
	if strings.TrimSpace(cfg.ProjectID) == "" {
		return nil, errors.New("gcp project id is required")
	}

	var opts []option.ClientOption
	if cfg.CredentialsJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating firebase app: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating firebase auth client: %w", err)
	}

	return &Client{auth: authClient}, nil
}

// VerifyIDToken validates the token signature and expiry and returns the caller identity.
func (c *Client) VerifyIDToken(ctx context.Context, token string) (*Token, error) {
	if c == nil || c.auth == nil {
		return nil, errors.New("identity client not initialized")
	}
	verified, err := c.auth.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("verifying id token: %w", err)
	}
	return &Token{UID: verified.UID, Claims: verified.Claims}, nil
}
