package triage_test

import (
	"errors"
	"testing"

	"jira-support-triage/internal/triage"
)

func TestSummaryRender(t *testing.T) {
	cases := []struct {
		name string
		sum  triage.Summary
		want string
	}{
		{name: "zero value", sum: triage.Summary{}, want: "nothing to summarize"},
		{name: "whitespace text", sum: triage.Summary{Text: "   \n"}, want: "nothing to summarize"},
		{name: "text passes through", sum: triage.Summary{Text: "The user cannot log in."}, want: "The user cannot log in."},
		{name: "failure names the cause", sum: triage.Summary{Err: errors.New("boom")}, want: "Error generating summary: boom"},
		{
			name: "failure wins over text",
			sum:  triage.Summary{Text: "partial", Err: errors.New("timeout")},
			want: "Error generating summary: timeout",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.sum.Render(); got != tc.want {
				t.Fatalf("Render() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestSummaryFailed(t *testing.T) {
	if (triage.Summary{}).Failed() {
		t.Fatal("zero value should not report failure")
	}
	if !(triage.Summary{Err: errors.New("x")}).Failed() {
		t.Fatal("error outcome should report failure")
	}
}
