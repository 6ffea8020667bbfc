// Package render turns triage results into styled console output. Everything
// here returns strings; commands decide where they go.
package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"jira-support-triage/internal/triage"
	"jira-support-triage/pkg/jira"
)

// NoResults is shown when no issue in the search window carries a .msg
// attachment.
const NoResults = "No recent support requests with .msg attachments found."

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	keyStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	panelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// IssueTable renders the listing of issues carrying .msg attachments.
func IssueTable(issues []jira.Issue) string {
	if len(issues) == 0 {
		return NoResults
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Issue Key", "Summary", "Status", "Created")
	for _, is := range issues {
		t.Row(is.Key, is.Fields.Summary, statusName(is), createdDate(is.Fields.Created))
	}
	return titleStyle.Render("Support Requests with .msg Attachments") + "\n" + t.String()
}

// TriagePanels renders one bordered panel per triaged issue.
func TriagePanels(reports []triage.Report) string {
	if len(reports) == 0 {
		return NoResults
	}
	panels := make([]string, 0, len(reports))
	for _, r := range reports {
		panels = append(panels, issuePanel(r))
	}
	return strings.Join(panels, "\n")
}

func issuePanel(r triage.Report) string {
	lines := []string{keyStyle.Render(r.Key) + ": " + titleStyle.Render(r.Title)}
	if r.EmailSubject != "" {
		lines = append(lines, labelStyle.Render("Email subject: ")+r.EmailSubject)
	}
	lines = append(lines,
		"",
		labelStyle.Render("Description summary"),
		r.DescriptionSummary.Render(),
		"",
		labelStyle.Render("Email summary"),
		r.EmailSummary.Render(),
	)
	return panelStyle.Render(strings.Join(lines, "\n"))
}

// DescriptionPanel renders the describe view: the issue header and its
// extracted description text.
func DescriptionPanel(key, title, text string) string {
	header := keyStyle.Render(key)
	if title != "" {
		header += ": " + titleStyle.Render(title)
	}
	return panelStyle.Render(header + "\n\n" + text)
}

// ConnectSummary renders the result of a successful connection check.
func ConnectSummary(user *jira.User, info *jira.ServerInfo) string {
	lines := []string{titleStyle.Render("Connected to Jira")}
	if user != nil {
		who := user.DisplayName
		if user.EmailAddress != "" {
			who += " (" + user.EmailAddress + ")"
		}
		lines = append(lines, labelStyle.Render("User: ")+who)
	}
	if info != nil {
		lines = append(lines, labelStyle.Render("Server: ")+strings.TrimSpace(info.ServerTitle+" "+info.Version)+" ("+info.DeploymentType+")")
		if info.BaseURL != "" {
			lines = append(lines, labelStyle.Render("Base URL: ")+info.BaseURL)
		}
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func statusName(is jira.Issue) string {
	if is.Fields.Status == nil {
		return ""
	}
	return is.Fields.Status.Name
}

// createdDate keeps the date part of Jira's ISO-8601 created timestamp.
func createdDate(created string) string {
	if i := strings.Index(created, "T"); i >= 0 {
		return created[:i]
	}
	return created
}
