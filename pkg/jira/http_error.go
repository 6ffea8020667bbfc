package jira

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"jira-support-triage/internal/util"
)

// errorEnvelope is the standard error body shape returned by the Jira REST
// API. Real responses may include additional fields; we intentionally ignore
// them.
type errorEnvelope struct {
	ErrorMessages []string          `json:"errorMessages"`
	Errors        map[string]string `json:"errors"`
}

// HTTPError is a sanitized summary of a non-2xx Jira API response.
//
// Important: do not include raw response bodies here (can leak PII/tokens).
type HTTPError struct {
	Op         string
	StatusCode int
	Status     string

	// Messages holds the parsed Jira error envelope: errorMessages entries
	// first, then per-field errors as "field: message" in field order.
	Messages []string

	// Snippet is a redacted, truncated hint for non-JSON responses.
	Snippet string
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "jira http error"
	}
	parts := []string{
		fmt.Sprintf("jira api error: op=%s status=%s", strings.TrimSpace(e.Op), strings.TrimSpace(e.Status)),
	}
	if len(e.Messages) > 0 {
		parts = append(parts, "messages="+strings.Join(e.Messages, "; "))
	}
	if strings.TrimSpace(e.Snippet) != "" {
		parts = append(parts, "body="+strings.TrimSpace(e.Snippet))
	}
	return strings.Join(parts, " ")
}

func newHTTPError(op string, resp *http.Response, body []byte) error {
	h := &HTTPError{Op: op}
	if resp != nil {
		h.StatusCode = resp.StatusCode
		h.Status = resp.Status
	}

	// Best effort: parse the Jira error envelope.
	var env errorEnvelope
	if len(body) > 0 && json.Unmarshal(body, &env) == nil {
		for _, m := range env.ErrorMessages {
			if strings.TrimSpace(m) != "" {
				h.Messages = append(h.Messages, strings.TrimSpace(m))
			}
		}
		fields := make([]string, 0, len(env.Errors))
		for f := range env.Errors {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		for _, f := range fields {
			if m := strings.TrimSpace(env.Errors[f]); m != "" {
				h.Messages = append(h.Messages, f+": "+m)
			}
		}
		if len(h.Messages) > 0 {
			return h
		}
	}

	// Fallback: include a small, redacted hint only.
	h.Snippet = redactAndTruncate(body)
	return h
}

func redactAndTruncate(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	// Keep this small: response bodies can contain sensitive data.
	const max = 256
	b := body
	if len(b) > max {
		b = b[:max]
	}
	s := util.RedactSecrets(string(b))
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if len(body) > max {
		return s + "..."
	}
	return s
}
