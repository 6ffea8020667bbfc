// Package mocklm is an in-process stand-in for an LM Studio server. It
// implements just the OpenAI-compatible endpoints the triage flow touches:
// GET /v1/models and POST /v1/chat/completions.
package mocklm

import (
	"encoding/json"
	"net/http"
	"sync"
)

// Call records a request made to the mock server.
type Call struct {
	Method string
	Path   string
}

// CompletionCall records one chat completion request as received on the wire.
type CompletionCall struct {
	Model       string
	Temperature float32
	System      string
	User        string
}

// Server holds scripted responses and records everything it is asked.
type Server struct {
	mu          sync.Mutex
	calls       []Call
	completions []CompletionCall

	expectedAuthorization string

	modelIDs []string
	queue    []string
	reply    string

	modelsStatus      int
	modelsBody        string
	completionsStatus int
	completionsBody   string
	noChoices         bool
}

// New constructs a healthy mock server advertising a single model.
func New() *Server {
	return &Server{
		modelIDs: []string{"qwen2.5-7b-instruct"},
		reply:    "This is a stand-in summary.",
	}
}

// RequireBearerToken enforces an Authorization header on every request.
// An empty token disables the check.
func (s *Server) RequireBearerToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token == "" {
		s.expectedAuthorization = ""
		return
	}
	s.expectedAuthorization = "Bearer " + token
}

// SetModels replaces the advertised model IDs.
func (s *Server) SetModels(ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modelIDs = append([]string(nil), ids...)
}

// SetReply sets the fixed completion text returned once the queue is empty.
func (s *Server) SetReply(reply string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reply = reply
}

// QueueReplies scripts completion texts consumed in order, one per request.
func (s *Server) QueueReplies(replies ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = append(s.queue, replies...)
}

// FailModels makes /v1/models answer with the given status and raw body.
// A 200 status with a non-JSON body simulates a server that is listening
// but is not an OpenAI-compatible endpoint.
func (s *Server) FailModels(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modelsStatus = status
	s.modelsBody = body
}

// FailCompletions makes /v1/chat/completions answer with the given status
// and raw body.
func (s *Server) FailCompletions(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.completionsStatus = status
	s.completionsBody = body
}

// RespondWithNoChoices makes completions succeed with an empty choice list.
func (s *Server) RespondWithNoChoices() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.noChoices = true
}

// Handler returns an http.Handler serving the mock API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/models", s.handleModels)
	mux.HandleFunc("/v1/chat/completions", s.handleChatCompletions)
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

// CompletionCalls returns a snapshot of the chat completion requests.
func (s *Server) CompletionCalls() []CompletionCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]CompletionCall, len(s.completions))
	copy(out, s.completions)
	return out
}

func (s *Server) recordCall(r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, Call{Method: r.Method, Path: r.URL.Path})
}

func (s *Server) authorize(w http.ResponseWriter, r *http.Request) bool {
	s.mu.Lock()
	expected := s.expectedAuthorization
	s.mu.Unlock()

	if expected == "" {
		return true
	}
	if r.Header.Get("Authorization") != expected {
		http.Error(w, `{"error":{"message":"invalid api key","type":"invalid_request_error"}}`, http.StatusUnauthorized)
		return false
	}
	return true
}

type modelEntry struct {
	ID     string `json:"id"`
	Object string `json:"object"`
}

type modelList struct {
	Object string       `json:"object"`
	Data   []modelEntry `json:"data"`
}

func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	s.recordCall(r)
	if !s.authorize(w, r) {
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.mu.Lock()
	status, body := s.modelsStatus, s.modelsBody
	ids := append([]string(nil), s.modelIDs...)
	s.mu.Unlock()

	if status != 0 {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
		return
	}

	list := modelList{Object: "list"}
	for _, id := range ids {
		list.Data = append(list.Data, modelEntry{ID: id, Object: "model"})
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(list)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Temperature float32       `json:"temperature"`
	Messages    []chatMessage `json:"messages"`
}

type chatChoice struct {
	Index        int         `json:"index"`
	Message      chatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

type chatResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
}

func (s *Server) handleChatCompletions(w http.ResponseWriter, r *http.Request) {
	s.recordCall(r)
	if !s.authorize(w, r) {
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":{"message":"malformed request body"}}`, http.StatusBadRequest)
		return
	}

	rec := CompletionCall{Model: req.Model, Temperature: req.Temperature}
	for _, m := range req.Messages {
		switch m.Role {
		case "system":
			if rec.System == "" {
				rec.System = m.Content
			}
		case "user":
			if rec.User == "" {
				rec.User = m.Content
			}
		}
	}

	s.mu.Lock()
	s.completions = append(s.completions, rec)
	status, body := s.completionsStatus, s.completionsBody
	noChoices := s.noChoices
	reply := s.reply
	if len(s.queue) > 0 {
		reply = s.queue[0]
		s.queue = s.queue[1:]
	}
	s.mu.Unlock()

	if status != 0 {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
		return
	}

	resp := chatResponse{ID: "chatcmpl-mock", Object: "chat.completion", Model: req.Model}
	if !noChoices {
		resp.Choices = []chatChoice{{
			Index:        0,
			Message:      chatMessage{Role: "assistant", Content: reply},
			FinishReason: "stop",
		}}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
