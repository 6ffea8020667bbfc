// Package mockjira is an in-process stand-in for a Jira Cloud REST API,
// covering just the endpoints the triage flow uses: JQL search, single-issue
// fetch, the two identity endpoints and attachment content downloads.
package mockjira

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"jira-support-triage/pkg/jira"
)

// Call records a request made to the mock server.
type Call struct {
	Method string
	Path   string
}

// SearchRequest is the decoded body of one POST to the search endpoint.
type SearchRequest struct {
	JQL        string   `json:"jql"`
	MaxResults int      `json:"maxResults"`
	Fields     []string `json:"fields"`
}

// Server holds scripted issues and records everything it is asked.
type Server struct {
	mu       sync.Mutex
	calls    []Call
	searches []SearchRequest

	expectedUser  string
	expectedToken string
	authRequired  bool

	issues      []jira.Issue
	attachments map[string][]byte

	user jira.User
	info jira.ServerInfo

	searchStatus int
	searchBody   string
}

// New constructs a mock server with a default identity and no issues.
func New() *Server {
	return &Server{
		attachments: make(map[string][]byte),
		user: jira.User{
			AccountID:    "5b10a2844c20165700ede21g",
			DisplayName:  "Alice Liddell",
			EmailAddress: "alice@example.com",
		},
		info: jira.ServerInfo{
			BaseURL:        "https://example.atlassian.net",
			Version:        "1001.0.0-SNAPSHOT",
			DeploymentType: "Cloud",
			ServerTitle:    "Example Jira",
		},
	}
}

// RequireBasicAuth enforces basic-auth credentials on every request.
func (s *Server) RequireBasicAuth(user, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authRequired = true
	s.expectedUser = user
	s.expectedToken = token
}

// SetIssues replaces the issues returned by search and issue lookups.
func (s *Server) SetIssues(issues ...jira.Issue) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issues = append([]jira.Issue(nil), issues...)
}

// SetAttachment registers bytes served at /attachments/{id}.
func (s *Server) SetAttachment(id string, b []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attachments[id] = append([]byte(nil), b...)
}

// FailSearch makes the search endpoint answer with the given status and body.
func (s *Server) FailSearch(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchStatus = status
	s.searchBody = body
}

// SetMyself replaces the identity returned by /rest/api/3/myself.
func (s *Server) SetMyself(u jira.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
}

// SetServerInfo replaces the payload returned by /rest/api/3/serverInfo.
func (s *Server) SetServerInfo(info jira.ServerInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.info = info
}

// Handler returns an http.Handler serving the mock API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/api/3/search/jql", s.handleSearch)
	mux.HandleFunc("/rest/api/3/issue/", s.handleIssue)
	mux.HandleFunc("/rest/api/3/myself", s.handleMyself)
	mux.HandleFunc("/rest/api/3/serverInfo", s.handleServerInfo)
	mux.HandleFunc("/attachments/", s.handleAttachment)
	return mux
}

// Calls returns a snapshot of all requests made to the server.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

// SearchRequests returns a snapshot of the decoded search bodies.
func (s *Server) SearchRequests() []SearchRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]SearchRequest, len(s.searches))
	copy(out, s.searches)
	return out
}

func (s *Server) recordCall(r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, Call{Method: r.Method, Path: r.URL.Path})
}

func (s *Server) authorize(w http.ResponseWriter, r *http.Request) bool {
	s.mu.Lock()
	required, wantUser, wantToken := s.authRequired, s.expectedUser, s.expectedToken
	s.mu.Unlock()

	if !required {
		return true
	}
	user, token, ok := r.BasicAuth()
	if !ok || user != wantUser || token != wantToken {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errorMessages":["Authentication failed"],"errors":{}}`))
		return false
	}
	return true
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	s.recordCall(r)
	if !s.authorize(w, r) {
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"errorMessages":["Malformed request body"],"errors":{}}`))
		return
	}

	s.mu.Lock()
	s.searches = append(s.searches, req)
	status, body := s.searchStatus, s.searchBody
	issues := append([]jira.Issue(nil), s.issues...)
	s.mu.Unlock()

	if status != 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(struct {
		Issues []jira.Issue `json:"issues"`
	}{Issues: issues})
}

func (s *Server) handleIssue(w http.ResponseWriter, r *http.Request) {
	s.recordCall(r)
	if !s.authorize(w, r) {
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	key := strings.TrimPrefix(r.URL.Path, "/rest/api/3/issue/")
	s.mu.Lock()
	var found *jira.Issue
	for i := range s.issues {
		if s.issues[i].Key == key {
			found = &s.issues[i]
			break
		}
	}
	s.mu.Unlock()

	if found == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"errorMessages":["Issue does not exist or you do not have permission to see it."],"errors":{}}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(found)
}

func (s *Server) handleMyself(w http.ResponseWriter, r *http.Request) {
	s.recordCall(r)
	if !s.authorize(w, r) {
		return
	}
	s.mu.Lock()
	u := s.user
	s.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(u)
}

func (s *Server) handleServerInfo(w http.ResponseWriter, r *http.Request) {
	s.recordCall(r)
	if !s.authorize(w, r) {
		return
	}
	s.mu.Lock()
	info := s.info
	s.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(info)
}

func (s *Server) handleAttachment(w http.ResponseWriter, r *http.Request) {
	s.recordCall(r)
	if !s.authorize(w, r) {
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/attachments/")
	s.mu.Lock()
	b, ok := s.attachments[id]
	s.mu.Unlock()
	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"errorMessages":["Attachment not found"],"errors":{}}`))
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = w.Write(b)
}
