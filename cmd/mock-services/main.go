// Command mock-services runs the in-process Jira and LM Studio mocks as real
// HTTP servers, seeded with a demo support request, so the CLI can be
// exercised locally without credentials:
//
//	JIRA_URL=http://localhost:8080 LM_STUDIO_BASE_URL=http://localhost:1234/v1 ...
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"

	"jira-support-triage/internal/mockjira"
	"jira-support-triage/internal/mocklm"
	"jira-support-triage/internal/msgtest"
	"jira-support-triage/pkg/jira"
)

func main() {
	jiraAddr := defaultString("MOCK_JIRA_ADDR", ":8080")
	lmAddr := defaultString("MOCK_LM_ADDR", ":1234")
	model := defaultString("MOCK_LM_MODEL", "qwen2.5-7b-instruct")

	fs := flag.NewFlagSet("mock-services", flag.ExitOnError)
	fs.StringVar(&jiraAddr, "jira-addr", jiraAddr, "Listen address for the mock Jira API")
	fs.StringVar(&lmAddr, "lm-addr", lmAddr, "Listen address for the mock LM Studio API")
	fs.StringVar(&model, "model", model, "Model ID the mock LM Studio advertises")
	_ = fs.Parse(os.Args[1:])

	jiraSrv := mockjira.New()
	seedIssues(jiraSrv)

	lmSrv := mocklm.New()
	lmSrv.SetModels(model)
	lmSrv.SetReply("I looked at this request; the user cannot stay connected and the details match the attached email.")

	errc := make(chan error, 2)
	go func() { errc <- http.ListenAndServe(jiraAddr, jiraSrv.Handler()) }()
	go func() { errc <- http.ListenAndServe(lmAddr, lmSrv.Handler()) }()

	_, _ = fmt.Fprintf(os.Stdout, "mock jira listening on %s, mock lm studio on %s\n", jiraAddr, lmAddr)
	if err := <-errc; err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func seedIssues(srv *mockjira.Server) {
	srv.SetAttachment("10001", msgtest.BuildMsg("Hello support,\n\nsince the Monday maintenance window our VPN drops every twenty minutes and the call center cannot stay logged in.\n\nRegards,\nDana"))
	srv.SetIssues(
		jira.Issue{Key: "SUP-101", Fields: jira.IssueFields{
			Summary:     "VPN drops every 20 minutes",
			Status:      &jira.Status{Name: "Open"},
			Created:     "2025-08-18T09:30:00.000+0000",
			Description: json.RawMessage(`{"type":"doc","version":1,"content":[{"type":"paragraph","content":[{"type":"text","text":"Call center reports periodic VPN disconnects since Monday."}]}]}`),
			Attachment: []jira.Attachment{
				{ID: "10001", Filename: "customer_email.msg", MimeType: "application/vnd.ms-outlook", Size: 5632, Content: "/attachments/10001"},
			},
		}},
		jira.Issue{Key: "SUP-102", Fields: jira.IssueFields{
			Summary: "Password reset request",
			Status:  &jira.Status{Name: "Done"},
			Created: "2025-08-19T11:00:00.000+0000",
			Attachment: []jira.Attachment{
				{ID: "10002", Filename: "policy.pdf", MimeType: "application/pdf", Size: 120000, Content: "/attachments/10002"},
			},
		}},
	)
}

func defaultString(envVar, fallback string) string {
	v := strings.TrimSpace(os.Getenv(envVar))
	if v == "" {
		return fallback
	}
	return v
}
