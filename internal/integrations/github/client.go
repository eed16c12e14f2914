// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-15

// Package github fetches open issues through the GitHub REST API.
package github

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/go-github/v60/github"

	"github.com/similigh/simili-triage/internal/core/triage"
)

const maxPerPage = 100

// Client wraps the GitHub API client.
type Client struct {
	client *github.Client
}

// FetchOpenIssues returns up to limit open issues for repoFullName
// ("owner/repo"), newest first, excluding pull requests. Any failure is
// reported as a *triage.SourceUnavailableError.
func (c *Client) FetchOpenIssues(ctx context.Context, repoFullName string, limit int) ([]triage.Issue, error) {
	owner, repo, err := SplitRepo(repoFullName)
	if err != nil {
		return nil, &triage.SourceUnavailableError{Repo: repoFullName, Err: err}
	}
	if limit <= 0 {
		return []triage.Issue{}, nil
	}

	opts := &github.IssueListByRepoOptions{
		State: "open",
		ListOptions: github.ListOptions{
			PerPage: min(limit, maxPerPage),
		},
	}

	issues := make([]triage.Issue, 0, limit)
	for {
		page, resp, err := c.client.Issues.ListByRepo(ctx, owner, repo, opts)
		if err != nil {
			return nil, &triage.SourceUnavailableError{
				Repo: repoFullName,
				Err:  fmt.Errorf("listing issues (page %d): %w", opts.Page, err),
			}
		}
		logRateLimit(resp, repoFullName, opts.Page, len(page))

		for _, is := range page {
			// The issues endpoint also returns pull requests.
			if is.IsPullRequest() {
				continue
			}
			issues = append(issues, mapIssue(is))
			if len(issues) == limit {
				return issues, nil
			}
		}

		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return issues, nil
}

// GetFileContent returns the decoded content of a file at ref (branch, tag or
// commit). An empty ref reads the default branch.
func (c *Client) GetFileContent(ctx context.Context, owner, repo, path, ref string) ([]byte, error) {
	var opts *github.RepositoryContentGetOptions
	if ref != "" {
		opts = &github.RepositoryContentGetOptions{Ref: ref}
	}

	file, _, _, err := c.client.Repositories.GetContents(ctx, owner, repo, path, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s from %s/%s: %w", path, owner, repo, err)
	}
	if file == nil {
		return nil, fmt.Errorf("%s in %s/%s is a directory", path, owner, repo)
	}

	content, err := file.GetContent()
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return []byte(content), nil
}

func mapIssue(is *github.Issue) triage.Issue {
	return triage.Issue{
		Number:        is.GetNumber(),
		Title:         is.GetTitle(),
		Body:          is.GetBody(),
		URL:           is.GetHTMLURL(),
		IsPullRequest: is.IsPullRequest(),
	}
}

// SplitRepo parses "owner/repo".
func SplitRepo(fullName string) (string, string, error) {
	parts := strings.Split(strings.TrimSpace(fullName), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository %q: expected owner/repo", fullName)
	}
	return parts[0], parts[1], nil
}

func logRateLimit(resp *github.Response, repo string, page, count int) {
	if resp == nil {
		return
	}
	log.Printf("[github] %s page %d: %d items (rate %d/%d)", repo, page, count, resp.Rate.Remaining, resp.Rate.Limit)
	if resp.Rate.Limit > 0 && resp.Rate.Remaining < 100 {
		log.Printf("[github] rate limit low: %d remaining, resets in %s",
			resp.Rate.Remaining, time.Until(resp.Rate.Reset.Time).Round(time.Second))
	}
}
