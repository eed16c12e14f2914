// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-13

package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"
	"github.com/google/go-github/v60/github"
	"github.com/gregjones/httpcache"
	"golang.org/x/oauth2"
)

// NewClient creates a new GitHub client using the provided token.
// If token is empty, it returns an unauthenticated client.
//
// Transport stack, outermost first:
//  1. oauth2 static token (when a token is set)
//  2. go-github-ratelimit (sleeps through secondary rate limits)
//  3. httpcache (ETag conditional requests)
func NewClient(ctx context.Context, token string) *Client {
	base := github_ratelimit.NewClient(httpcache.NewMemoryCacheTransport())

	tc := base
	if token != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		tc = oauth2.NewClient(context.WithValue(ctx, oauth2.HTTPClient, base), ts)
	}

	return &Client{
		client: github.NewClient(tc),
	}
}

// NewClientWithHTTPClient creates a Client against a custom base URL.
// It is intended for tests that point the client at an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL string) (*Client, error) {
	client := github.NewClient(httpClient)

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	client.BaseURL = u

	return &Client{client: client}, nil
}
