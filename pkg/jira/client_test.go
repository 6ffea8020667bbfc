package jira_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"jira-support-triage/pkg/jira"
)

func newTestClient(t *testing.T, baseURL string) *jira.Client {
	t.Helper()
	c, err := jira.NewClient(baseURL, "alice@example.com", "tok-123", nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestNewClient_Validation(t *testing.T) {
	cases := []struct {
		name  string
		url   string
		user  string
		token string
	}{
		{name: "empty url", url: "", user: "u", token: "t"},
		{name: "empty user", url: "https://example.atlassian.net", user: "", token: "t"},
		{name: "empty token", url: "https://example.atlassian.net", user: "u", token: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := jira.NewClient(tc.url, tc.user, tc.token, nil); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestSearchIssues_RequestShape(t *testing.T) {
	var gotPath, gotMethod, gotContentType string
	var gotBody map[string]any
	var gotUser, gotToken string

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		gotUser, gotToken, _ = r.BasicAuth()
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &gotBody)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"issues":[{"key":"SUP-1","fields":{"summary":"Printer on fire"}}]}`))
	}))
	defer ts.Close()

	c := newTestClient(t, ts.URL)
	issues, err := c.SearchIssues(context.Background(), "project = SUP", []string{"summary", "attachment", "description"}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotMethod != http.MethodPost || gotPath != "/rest/api/3/search/jql" {
		t.Fatalf("unexpected request: %s %s", gotMethod, gotPath)
	}
	if gotContentType != "application/json" {
		t.Fatalf("unexpected content type: %q", gotContentType)
	}
	if gotUser != "alice@example.com" || gotToken != "tok-123" {
		t.Fatalf("unexpected basic auth: %q / %q", gotUser, gotToken)
	}
	if gotBody["jql"] != "project = SUP" {
		t.Fatalf("unexpected jql: %v", gotBody["jql"])
	}
	if gotBody["maxResults"] != float64(50) {
		t.Fatalf("maxResults should default to 50, got %v", gotBody["maxResults"])
	}
	if len(issues) != 1 || issues[0].Key != "SUP-1" || issues[0].Fields.Summary != "Printer on fire" {
		t.Fatalf("unexpected issues: %#v", issues)
	}
}

func TestSearchIssues_MissingIssuesArrayIsEmpty(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	c := newTestClient(t, ts.URL)
	issues, err := c.SearchIssues(context.Background(), "project = SUP", nil, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if issues == nil || len(issues) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", issues)
	}
}

func TestSearchIssues_HTTPErrorCarriesEnvelope(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"errorMessages":["The jql query is invalid."],"errors":{}}`))
	}))
	defer ts.Close()

	c := newTestClient(t, ts.URL)
	_, err := c.SearchIssues(context.Background(), "bogus ~~~", nil, 0)
	if err == nil {
		t.Fatalf("expected error")
	}
	var he *jira.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *jira.HTTPError, got %T: %v", err, err)
	}
	if he.StatusCode != http.StatusBadRequest {
		t.Fatalf("unexpected status code: %d", he.StatusCode)
	}
	if len(he.Messages) != 1 || he.Messages[0] != "The jql query is invalid." {
		t.Fatalf("unexpected messages: %#v", he.Messages)
	}
}

func TestSearchIssues_PreservesBaseContextPath(t *testing.T) {
	var gotPath string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"issues":[]}`))
	}))
	defer ts.Close()

	c := newTestClient(t, ts.URL+"/jira")
	if _, err := c.SearchIssues(context.Background(), "project = SUP", nil, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/jira/rest/api/3/search/jql" {
		t.Fatalf("context path lost: %s", gotPath)
	}
}

func TestGetIssue(t *testing.T) {
	t.Run("fetches one issue with fields", func(t *testing.T) {
		var gotPath, gotFields string
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotFields = r.URL.Query().Get("fields")
			_, _ = w.Write([]byte(`{"key":"SUP-7","fields":{"summary":"VPN drops"}}`))
		}))
		defer ts.Close()

		c := newTestClient(t, ts.URL)
		is, err := c.GetIssue(context.Background(), "SUP-7", []string{"summary", "description"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotPath != "/rest/api/3/issue/SUP-7" {
			t.Fatalf("unexpected path: %s", gotPath)
		}
		if gotFields != "summary,description" {
			t.Fatalf("unexpected fields param: %q", gotFields)
		}
		if is == nil || is.Key != "SUP-7" {
			t.Fatalf("unexpected issue: %#v", is)
		}
	})

	t.Run("404 means absent, not an error", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"errorMessages":["Issue does not exist or you do not have permission to see it."]}`))
		}))
		defer ts.Close()

		c := newTestClient(t, ts.URL)
		is, err := c.GetIssue(context.Background(), "SUP-404", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if is != nil {
			t.Fatalf("expected nil issue, got %#v", is)
		}
	})
}

func TestDownloadAttachment(t *testing.T) {
	want := []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

	t.Run("authenticated download", func(t *testing.T) {
		var gotUser string
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUser, _, _ = r.BasicAuth()
			_, _ = w.Write(want)
		}))
		defer ts.Close()

		c := newTestClient(t, ts.URL)
		got, err := c.DownloadAttachment(context.Background(), ts.URL+"/rest/api/3/attachment/content/10001")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotUser != "alice@example.com" {
			t.Fatalf("download not authenticated: user=%q", gotUser)
		}
		if string(got) != string(want) {
			t.Fatalf("unexpected bytes: %v", got)
		}
	})

	t.Run("non-2xx is a typed error", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "gone", http.StatusGone)
		}))
		defer ts.Close()

		c := newTestClient(t, ts.URL)
		_, err := c.DownloadAttachment(context.Background(), ts.URL+"/whatever")
		var he *jira.HTTPError
		if !errors.As(err, &he) || he.StatusCode != http.StatusGone {
			t.Fatalf("expected *jira.HTTPError with 410, got %v", err)
		}
	})
}

func TestMyselfAndServer(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rest/api/3/myself":
			_, _ = w.Write([]byte(`{"accountId":"abc123","displayName":"Alice Liddell","emailAddress":"alice@example.com"}`))
		case "/rest/api/3/serverInfo":
			_, _ = w.Write([]byte(`{"baseUrl":"https://example.atlassian.net","version":"1001.0.0","deploymentType":"Cloud","serverTitle":"Example Jira"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer ts.Close()

	c := newTestClient(t, ts.URL)

	me, err := c.Myself(context.Background())
	if err != nil {
		t.Fatalf("myself: %v", err)
	}
	if me.DisplayName != "Alice Liddell" {
		t.Fatalf("unexpected user: %#v", me)
	}

	info, err := c.Server(context.Background())
	if err != nil {
		t.Fatalf("serverInfo: %v", err)
	}
	if info.ServerTitle != "Example Jira" || info.DeploymentType != "Cloud" {
		t.Fatalf("unexpected server info: %#v", info)
	}
}
