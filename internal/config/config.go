// Package config loads command configuration from the process environment.
//
// Every required variable is checked on load and a failure names the complete
// set of absent variables, so the operator fixes the environment in one pass.
package config

import (
	"os"
	"strings"
)

// Environment variable names read by the CLI.
const (
	EnvJiraURL      = "JIRA_URL"
	EnvJiraUser     = "JIRA_USER"
	EnvJiraAPIToken = "JIRA_API_TOKEN"
	EnvJiraJQLQuery = "JIRA_JQL_QUERY"
	EnvLMBaseURL    = "LM_STUDIO_BASE_URL"
	EnvLMAPIKey     = "LM_STUDIO_API_KEY"
	EnvLMModel      = "LM_STUDIO_MODEL"
)

// MissingError lists every required environment variable that was unset or
// blank at load time.
type MissingError struct {
	Names []string
}

func (e *MissingError) Error() string {
	return "missing required environment variables: " + strings.Join(e.Names, ", ")
}

// Jira holds the connection settings shared by every command.
type Jira struct {
	URL      string
	User     string
	APIToken string
}

// Search adds the JQL query used by the list and triage commands.
type Search struct {
	Jira
	JQL string
}

// Triage adds the AI endpoint settings used by the triage command.
type Triage struct {
	Search
	LMBaseURL string
	LMAPIKey  string
	LMModel   string
}

// LoadJira reads the Jira connection settings.
func LoadJira() (Jira, error) {
	r := &reader{}
	cfg := r.jira()
	if err := r.err(); err != nil {
		return Jira{}, err
	}
	return cfg, nil
}

// LoadSearch reads the Jira connection settings plus the JQL query.
func LoadSearch() (Search, error) {
	r := &reader{}
	cfg := r.search()
	if err := r.err(); err != nil {
		return Search{}, err
	}
	return cfg, nil
}

// LoadTriage reads every setting the triage pipeline needs.
func LoadTriage() (Triage, error) {
	r := &reader{}
	cfg := Triage{
		Search:    r.search(),
		LMBaseURL: r.get(EnvLMBaseURL),
		LMAPIKey:  r.get(EnvLMAPIKey),
		LMModel:   r.get(EnvLMModel),
	}
	if err := r.err(); err != nil {
		return Triage{}, err
	}
	return cfg, nil
}

// reader accumulates missing variable names across lookups so a failed load
// reports the complete set, not just the first gap.
type reader struct {
	missing []string
}

func (r *reader) jira() Jira {
	return Jira{
		URL:      r.get(EnvJiraURL),
		User:     r.get(EnvJiraUser),
		APIToken: r.get(EnvJiraAPIToken),
	}
}

func (r *reader) search() Search {
	return Search{
		Jira: r.jira(),
		JQL:  r.get(EnvJiraJQLQuery),
	}
}

func (r *reader) get(name string) string {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		r.missing = append(r.missing, name)
	}
	return v
}

func (r *reader) err() error {
	if len(r.missing) == 0 {
		return nil
	}
	return &MissingError{Names: r.missing}
}
