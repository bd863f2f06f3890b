// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package githubstore

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-github/v68/github"

	"github.com/danielhkuo/rollcall/storage"
)

const requestTimeout = 10 * time.Second

// Store mirrors the snapshot file into a GitHub repository through the
// contents API. The contents-API blob SHA is the version tag: updates must
// supply the SHA last observed, and GitHub rejects a stale one.
type Store struct {
	client *github.Client
	owner  string
	repo   string
	branch string
	path   string
}

// New builds a store for "owner/name". An empty branch uses the repository
// default.
func New(token, ownerRepo, branch, path string) (*Store, error) {
	owner, repo, ok := strings.Cut(ownerRepo, "/")
	if !ok || owner == "" || repo == "" {
		return nil, fmt.Errorf("invalid repository %q, want owner/name", ownerRepo)
	}
	httpClient := &http.Client{Timeout: requestTimeout}
	return &Store{
		client: github.NewClient(httpClient).WithAuthToken(token),
		owner:  owner,
		repo:   repo,
		branch: branch,
		path:   path,
	}, nil
}

// WithBaseURL redirects API calls, used by tests.
func (s *Store) WithBaseURL(baseURL string) error {
	client, err := s.client.WithEnterpriseURLs(baseURL, baseURL)
	if err != nil {
		return err
	}
	s.client = client
	return nil
}

// Get reads the current snapshot content and its blob SHA.
func (s *Store) Get(ctx context.Context) ([]byte, string, error) {
	opts := &github.RepositoryContentGetOptions{Ref: s.branch}
	file, _, resp, err := s.client.Repositories.GetContents(ctx, s.owner, s.repo, s.path, opts)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, "", storage.ErrNotFound
		}
		return nil, "", fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	if file == nil {
		return nil, "", fmt.Errorf("%s is a directory, not a file", s.path)
	}
	content, err := file.GetContent()
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode %s: %w", s.path, err)
	}
	return []byte(content), file.GetSHA(), nil
}

// Put writes the snapshot conditioned on the given SHA; an empty SHA creates
// the file. A stale SHA maps to storage.ErrVersionConflict.
func (s *Store) Put(ctx context.Context, content []byte, version string) (string, error) {
	opts := &github.RepositoryContentFileOptions{
		Message: github.Ptr("update roster snapshot"),
		Content: content,
	}
	if s.branch != "" {
		opts.Branch = github.Ptr(s.branch)
	}

	var res *github.RepositoryContentResponse
	var resp *github.Response
	var err error
	if version == "" {
		res, resp, err = s.client.Repositories.CreateFile(ctx, s.owner, s.repo, s.path, opts)
	} else {
		opts.SHA = github.Ptr(version)
		res, resp, err = s.client.Repositories.UpdateFile(ctx, s.owner, s.repo, s.path, opts)
	}
	if err != nil {
		if resp != nil && (resp.StatusCode == http.StatusConflict || resp.StatusCode == http.StatusUnprocessableEntity) {
			return "", storage.ErrVersionConflict
		}
		return "", fmt.Errorf("failed to write %s: %w", s.path, err)
	}
	if res != nil && res.Content != nil {
		return res.Content.GetSHA(), nil
	}
	return "", nil
}
