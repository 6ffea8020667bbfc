package lmstudio

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"

	"jira-support-triage/internal/util"
)

// Hints attached to a ConnectionError by classify. They name the most likely
// misconfiguration for each failure shape.
const (
	HintNotOpenAI   = "the endpoint answered but not with JSON; check that the base URL points at an OpenAI-compatible server"
	HintMissingV1   = "the models endpoint was not found; the base URL may be missing its /v1 suffix"
	HintBadAPIKey   = "the server rejected the API key"
	HintUnreachable = "no response from the server; check that LM Studio is running and the address is reachable"
)

// ConnectionError reports a failed liveness probe against the AI endpoint.
type ConnectionError struct {
	BaseURL string
	Hint    string
	Err     error
}

func (e *ConnectionError) Error() string {
	msg := fmt.Sprintf("failed to connect to LM Studio server at %s: %v", e.BaseURL, e.Err)
	if e.Hint != "" {
		msg += " (" + e.Hint + ")"
	}
	return util.RedactSecrets(msg)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// classify maps a probe failure onto a hint using the error's type, never its
// message text. An error shape with no obvious remedy gets no hint.
func classify(err error) string {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return HintNotOpenAI
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == http.StatusUnauthorized || apiErr.HTTPStatusCode == http.StatusForbidden {
			return HintBadAPIKey
		}
		return ""
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		switch reqErr.HTTPStatusCode {
		case http.StatusNotFound:
			return HintMissingV1
		case http.StatusUnauthorized, http.StatusForbidden:
			return HintBadAPIKey
		}
		return ""
	}

	return HintUnreachable
}
