// Package triage drives the support-request flow: search Jira, keep the
// issues carrying Outlook .msg attachments, and produce two AI summaries per
// issue (description and email body).
package triage

import "strings"

// NothingToSummarize is rendered when a summarization step had no input.
const NothingToSummarize = "nothing to summarize"

// Summary is the outcome of one summarization step: text on success, a cause
// on failure. The zero value means there was no input to summarize.
type Summary struct {
	Text string
	Err  error
}

// Failed reports whether the step failed.
func (s Summary) Failed() bool { return s.Err != nil }

// Render formats the outcome for display. Failures and the no-input case
// collapse to fixed strings; everything else is the summary text itself.
func (s Summary) Render() string {
	if s.Err != nil {
		return "Error generating summary: " + s.Err.Error()
	}
	if strings.TrimSpace(s.Text) == "" {
		return NothingToSummarize
	}
	return s.Text
}
