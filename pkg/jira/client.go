// Package jira is a minimal client for the Jira Cloud REST API v3 endpoints
// this tool uses: JQL search, single-issue fetch, attachment download and the
// connection-check endpoints. All requests carry basic auth (user email +
// API token).
package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultMaxResults is the search page size used when the caller does not
// pick one.
const DefaultMaxResults = 50

// Client calls the Jira REST API.
type Client struct {
	baseURL *url.URL
	user    string
	token   string
	http    *http.Client
	log     *slog.Logger
}

// NewClient constructs a client for the Jira base URL (for example,
// "https://<site>.atlassian.net"). A nil logger discards client logs.
func NewClient(jiraURL, user, token string, log *slog.Logger) (*Client, error) {
	base, err := parseBaseURL(jiraURL)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(user) == "" {
		return nil, fmt.Errorf("jira user is required")
	}
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("jira api token is required")
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		baseURL: base,
		user:    strings.TrimSpace(user),
		token:   strings.TrimSpace(token),
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log,
	}, nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("jira base URL is required")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse jira base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("jira base URL must include a host (got %q)", raw)
	}
	// Ensure the base path ends with a slash so ResolveReference treats it as
	// a directory; Jira sites behind a context path stay intact.
	u.Path = strings.TrimRight(u.Path, "/") + "/"
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

type searchRequest struct {
	JQL        string   `json:"jql"`
	MaxResults int      `json:"maxResults"`
	Fields     []string `json:"fields"`
}

type searchResponse struct {
	Issues []Issue `json:"issues"`
}

// SearchIssues runs one JQL search and returns the response's issues array.
// A response without an issues array yields an empty slice, not an error.
// maxResults <= 0 falls back to DefaultMaxResults.
func (c *Client) SearchIssues(ctx context.Context, jql string, fields []string, maxResults int) ([]Issue, error) {
	jql = strings.TrimSpace(jql)
	if jql == "" {
		return nil, fmt.Errorf("jql query is required")
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	body, err := json.Marshal(searchRequest{JQL: jql, MaxResults: maxResults, Fields: fields})
	if err != nil {
		return nil, err
	}

	u := c.resolve("rest/api/3/search/jql")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.user, c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	c.log.Debug("searching issues", "jql", jql, "maxResults", maxResults, "fields", strings.Join(fields, ","))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode/100 != 2 {
		return nil, newHTTPError("searchIssues", resp, b)
	}

	var out searchResponse
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("parse search response: %w", err)
	}
	if out.Issues == nil {
		return []Issue{}, nil
	}
	return out.Issues, nil
}

// GetIssue fetches one issue by key, limited to the given fields. It returns
// (nil, nil) when the issue does not exist or the credentials cannot see it;
// Jira answers 404 for both.
func (c *Client) GetIssue(ctx context.Context, key string, fields []string) (*Issue, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, fmt.Errorf("issue key is required")
	}

	u := c.resolve("rest/api/3/issue/" + url.PathEscape(key))
	if len(fields) > 0 {
		q := url.Values{}
		q.Set("fields", strings.Join(fields, ","))
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.user, c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode/100 != 2 {
		return nil, newHTTPError("getIssue", resp, b)
	}

	var out Issue
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("parse issue response: %w", err)
	}
	return &out, nil
}

// Myself returns the user the credentials authenticate as.
func (c *Client) Myself(ctx context.Context) (*User, error) {
	u := c.resolve("rest/api/3/myself")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.user, c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode/100 != 2 {
		return nil, newHTTPError("myself", resp, b)
	}

	var out User
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("parse myself response: %w", err)
	}
	return &out, nil
}

// Server returns deployment details for the Jira instance answering the API.
func (c *Client) Server(ctx context.Context) (*ServerInfo, error) {
	u := c.resolve("rest/api/3/serverInfo")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.user, c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode/100 != 2 {
		return nil, newHTTPError("serverInfo", resp, b)
	}

	var out ServerInfo
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("parse serverInfo response: %w", err)
	}
	return &out, nil
}

// DownloadAttachment fetches attachment bytes from its content URL using the
// same basic-auth credentials as the API calls. Relative URLs resolve against
// the client base URL.
func (c *Client) DownloadAttachment(ctx context.Context, contentURL string) ([]byte, error) {
	contentURL = strings.TrimSpace(contentURL)
	if contentURL == "" {
		return nil, fmt.Errorf("attachment content URL is required")
	}
	u, err := url.Parse(contentURL)
	if err != nil {
		return nil, fmt.Errorf("parse attachment URL: %w", err)
	}
	if !u.IsAbs() {
		u = c.baseURL.ResolveReference(u)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.user, c.token)

	c.log.Debug("downloading attachment", "url", u.Redacted())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode/100 != 2 {
		return nil, newHTTPError("downloadAttachment", resp, b)
	}
	return b, nil
}

func (c *Client) resolve(relPath string) *url.URL {
	relPath = strings.TrimPrefix(relPath, "/")
	rel := &url.URL{Path: relPath}
	return c.baseURL.ResolveReference(rel)
}
