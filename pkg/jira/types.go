package jira

import "encoding/json"

// Issue is one issue record as returned by the search and issue endpoints.
type Issue struct {
	Key    string      `json:"key"`
	Fields IssueFields `json:"fields"`
}

// IssueFields carries the subset of issue fields this tool requests. The
// description is kept raw: it is an Atlassian Document Format tree and is
// decoded by pkg/adf, not here.
type IssueFields struct {
	Summary     string          `json:"summary"`
	Status      *Status         `json:"status,omitempty"`
	Created     string          `json:"created,omitempty"`
	Description json.RawMessage `json:"description,omitempty"`
	Attachment  []Attachment    `json:"attachment,omitempty"`
}

// Status is the issue's workflow status.
type Status struct {
	Name string `json:"name"`
}

// Attachment describes one issue attachment. Content is the authenticated
// download URL for the attachment bytes.
type Attachment struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	MimeType string `json:"mimeType"`
	Size     int64  `json:"size"`
	Content  string `json:"content"`
}

// User is the authenticated user returned by the myself endpoint.
type User struct {
	AccountID    string `json:"accountId"`
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress"`
}

// ServerInfo describes the Jira deployment answering the API.
type ServerInfo struct {
	BaseURL        string `json:"baseUrl"`
	Version        string `json:"version"`
	DeploymentType string `json:"deploymentType"`
	ServerTitle    string `json:"serverTitle"`
}
