// Package sso implements the relying-party side of the identity-provider
// login flow: building the authorize redirect, exchanging the callback code
// for tokens, and extracting identity claims from the id_token.
package sso

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"electa/internal/config"
	"electa/pkg/logger"
)

// Identity is what the provider asserts about a logged-in subject.
type Identity struct {
	SSOID string
	Email string
	Name  string

	// Groups are the provider-side group memberships; membership in the
	// admin group maps to the Admin role locally
	Groups []string
}

// IsAdmin reports whether the identity belongs to the admin group.
func (i *Identity) IsAdmin() bool {
	for _, g := range i.Groups {
		if strings.EqualFold(g, "admins") {
			return true
		}
	}
	return false
}

type discoveryDocument struct {
	AuthorizationEndpoint string `json:"authorization_endpoint"`
	TokenEndpoint         string `json:"token_endpoint"`
}

type tokenResponse struct {
	IDToken     string `json:"id_token"`
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type idTokenClaims struct {
	jwt.RegisteredClaims
	Email  string   `json:"email"`
	Name   string   `json:"name"`
	Groups []string `json:"groups,omitempty"`
}

// Client talks to the identity provider. Endpoints are resolved lazily from
// the provider's discovery document and cached.
type Client struct {
	cfg        config.SSOConfig
	httpClient *http.Client

	mu        sync.Mutex
	discovery *discoveryDocument
}

// NewClient creates a new identity-provider client.
func NewClient(cfg config.SSOConfig) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// NewState generates an opaque value binding the authorize redirect to the
// callback that follows it.
func NewState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate state: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// AuthorizeURL builds the provider URL the browser is redirected to.
func (c *Client) AuthorizeURL(ctx context.Context, state string) (string, error) {
	doc, err := c.discover(ctx)
	if err != nil {
		return "", err
	}

	q := url.Values{}
	q.Set("response_type", "code")
	q.Set("client_id", c.cfg.ClientID)
	q.Set("redirect_uri", c.cfg.RedirectURL)
	q.Set("scope", "openid profile email")
	q.Set("state", state)

	return doc.AuthorizationEndpoint + "?" + q.Encode(), nil
}

// Exchange trades the callback code for tokens and returns the identity
// asserted in the id_token.
func (c *Client) Exchange(ctx context.Context, code string) (*Identity, error) {
	doc, err := c.discover(ctx)
	if err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", c.cfg.RedirectURL)
	form.Set("client_id", c.cfg.ClientID)
	form.Set("client_secret", c.cfg.ClientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, doc.TokenEndpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token endpoint returned %d", resp.StatusCode)
	}

	var tokens tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokens); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}
	if tokens.IDToken == "" {
		return nil, fmt.Errorf("token response has no id_token")
	}

	return c.parseIDToken(tokens.IDToken)
}

// parseIDToken validates the id_token signature with the shared client
// secret (HS256) and extracts identity claims.
func (c *Client) parseIDToken(raw string) (*Identity, error) {
	token, err := jwt.ParseWithClaims(raw, &idTokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(c.cfg.ClientSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse id_token: %w", err)
	}

	claims, ok := token.Claims.(*idTokenClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid id_token claims")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("id_token has no subject")
	}

	return &Identity{
		SSOID:  claims.Subject,
		Email:  claims.Email,
		Name:   claims.Name,
		Groups: claims.Groups,
	}, nil
}

func (c *Client) discover(ctx context.Context) (*discoveryDocument, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.discovery != nil {
		return c.discovery, nil
	}

	wellKnown := strings.TrimSuffix(c.cfg.IssuerURL, "/") + "/.well-known/openid-configuration"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, wellKnown, nil)
	if err != nil {
		return nil, fmt.Errorf("build discovery request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch discovery document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("discovery endpoint returned %d", resp.StatusCode)
	}

	var doc discoveryDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode discovery document: %w", err)
	}
	if doc.AuthorizationEndpoint == "" || doc.TokenEndpoint == "" {
		return nil, fmt.Errorf("discovery document is incomplete")
	}

	c.discovery = &doc
	logger.Info(ctx, "identity provider discovered",
		"authorize", doc.AuthorizationEndpoint,
		"token", doc.TokenEndpoint)

	return c.discovery, nil
}
