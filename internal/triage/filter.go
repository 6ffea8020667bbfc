package triage

import (
	"strings"

	"jira-support-triage/pkg/jira"
)

// FirstMsgAttachment returns the first attachment in source order whose
// filename, lowercased, ends in .msg.
func FirstMsgAttachment(issue jira.Issue) (jira.Attachment, bool) {
	for _, a := range issue.Fields.Attachment {
		if strings.HasSuffix(strings.ToLower(a.Filename), ".msg") {
			return a, true
		}
	}
	return jira.Attachment{}, false
}

// HasMsgAttachment reports whether the issue carries at least one .msg
// attachment.
func HasMsgAttachment(issue jira.Issue) bool {
	_, ok := FirstMsgAttachment(issue)
	return ok
}

// FilterMsgIssues keeps the issues with at least one .msg attachment,
// preserving their order.
func FilterMsgIssues(issues []jira.Issue) []jira.Issue {
	out := make([]jira.Issue, 0, len(issues))
	for _, issue := range issues {
		if HasMsgAttachment(issue) {
			out = append(out, issue)
		}
	}
	return out
}
