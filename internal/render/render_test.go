package render_test

import (
	"errors"
	"strings"
	"testing"

	"jira-support-triage/internal/render"
	"jira-support-triage/internal/triage"
	"jira-support-triage/pkg/jira"
)

func TestIssueTable(t *testing.T) {
	issues := []jira.Issue{
		{Key: "SUP-1", Fields: jira.IssueFields{
			Summary: "Printer on fire",
			Status:  &jira.Status{Name: "Open"},
			Created: "2025-08-12T09:30:00.000+0000",
		}},
		{Key: "SUP-2", Fields: jira.IssueFields{
			Summary: "VPN drops",
			Status:  nil,
			Created: "2025-08-13",
		}},
	}

	out := render.IssueTable(issues)
	for _, want := range []string{
		"Support Requests with .msg Attachments",
		"Issue Key", "Summary", "Status", "Created",
		"SUP-1", "Printer on fire", "Open", "2025-08-12",
		"SUP-2", "VPN drops", "2025-08-13",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("table missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "T09:30") {
		t.Fatalf("created column should show the date only:\n%s", out)
	}
}

func TestIssueTable_Empty(t *testing.T) {
	if got := render.IssueTable(nil); got != render.NoResults {
		t.Fatalf("empty table = %q, want the no-results line", got)
	}
}

func TestTriagePanels(t *testing.T) {
	reports := []triage.Report{
		{
			Key:                "SUP-1",
			Title:              "VPN keeps dropping",
			EmailSubject:       "Re: VPN drops every 20 minutes",
			DescriptionSummary: triage.Summary{Text: "The user reports periodic VPN drops."},
			EmailSummary:       triage.Summary{Err: errors.New("boom")},
		},
		{
			Key:                "SUP-2",
			Title:              "Blank ticket",
			DescriptionSummary: triage.Summary{},
			EmailSummary:       triage.Summary{Text: "The email asks for a password reset."},
		},
	}

	out := render.TriagePanels(reports)
	for _, want := range []string{
		"SUP-1", "VPN keeps dropping",
		"Email subject: ", "Re: VPN drops every 20 minutes",
		"Description summary", "The user reports periodic VPN drops.",
		"Email summary", "Error generating summary: boom",
		"SUP-2", "nothing to summarize", "The email asks for a password reset.",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("panels missing %q:\n%s", want, out)
		}
	}
}

func TestTriagePanels_SubjectLineOnlyWhenPresent(t *testing.T) {
	out := render.TriagePanels([]triage.Report{{Key: "SUP-3", Title: "No subject"}})
	if strings.Contains(out, "Email subject") {
		t.Fatalf("subject line rendered for a report without one:\n%s", out)
	}
}

func TestTriagePanels_Empty(t *testing.T) {
	if got := render.TriagePanels(nil); got != render.NoResults {
		t.Fatalf("empty panels = %q, want the no-results line", got)
	}
}

func TestDescriptionPanel(t *testing.T) {
	out := render.DescriptionPanel("SUP-9", "Login loop", "The login page reloads forever.\nStarted on Monday.")
	for _, want := range []string{"SUP-9", "Login loop", "The login page reloads forever."} {
		if !strings.Contains(out, want) {
			t.Fatalf("panel missing %q:\n%s", want, out)
		}
	}
}

func TestConnectSummary(t *testing.T) {
	out := render.ConnectSummary(
		&jira.User{DisplayName: "Alice Liddell", EmailAddress: "alice@example.com"},
		&jira.ServerInfo{ServerTitle: "Example Jira", Version: "1001.0.0", DeploymentType: "Cloud", BaseURL: "https://example.atlassian.net"},
	)
	for _, want := range []string{
		"Connected to Jira",
		"Alice Liddell", "alice@example.com",
		"Example Jira", "1001.0.0", "Cloud",
		"https://example.atlassian.net",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
}
