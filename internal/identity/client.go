// Package identity talks to the third-party identity endpoint used for
// sign-up and password sign-in. The endpoint is a black box with a JSON
// contract; this package normalizes its responses into Credentials and
// structured APIErrors.
package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	signUpPath = "/signupNewUser"
	signInPath = "/accounts:signInWithPassword"
)

// API is the surface the auth orchestrator depends on.
type API interface {
	SignUp(ctx context.Context, email, password string) (*Credentials, error)
	SignIn(ctx context.Context, email, password string) (*Credentials, error)
}

// Client is a resty-backed implementation of API.
type Client struct {
	http   *resty.Client
	apiKey string
}

// NewClient creates an identity client for the given base URL and API key.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	http := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")

	return &Client{
		http:   http,
		apiKey: apiKey,
	}
}

// SignUp registers a new user with the endpoint.
func (c *Client) SignUp(ctx context.Context, email, password string) (*Credentials, error) {
	return c.post(ctx, signUpPath, email, password)
}

// SignIn authenticates an existing user against the endpoint.
func (c *Client) SignIn(ctx context.Context, email, password string) (*Credentials, error) {
	return c.post(ctx, signInPath, email, password)
}

func (c *Client) post(ctx context.Context, path, email, password string) (*Credentials, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("key", c.apiKey).
		SetBody(authRequest{
			Email:             email,
			Password:          password,
			ReturnSecureToken: true,
		}).
		Post(path)
	if err != nil {
		return nil, fmt.Errorf("identity request failed: %w", err)
	}

	if resp.IsError() {
		var body errorResponse
		if err := json.Unmarshal(resp.Body(), &body); err != nil || body.Error.Message == "" {
			return nil, fmt.Errorf("identity endpoint returned status %d", resp.StatusCode())
		}
		return nil, &APIError{Code: body.Error.Message}
	}

	var body authResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("failed to decode identity response: %w", err)
	}
	if body.IDToken == "" || body.LocalID == "" {
		return nil, fmt.Errorf("identity response missing credentials")
	}

	return &Credentials{
		IDToken:   body.IDToken,
		Email:     body.Email,
		UserID:    body.LocalID,
		ExpiresIn: time.Duration(body.ExpiresIn),
	}, nil
}
