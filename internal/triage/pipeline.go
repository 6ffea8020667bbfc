package triage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"jira-support-triage/pkg/adf"
	"jira-support-triage/pkg/jira"
	"jira-support-triage/pkg/msgfile"
)

// triageFields is the Jira field set every triage search requests.
var triageFields = []string{"summary", "attachment", "description"}

// IssueSource is the slice of the Jira client the pipeline depends on.
type IssueSource interface {
	SearchIssues(ctx context.Context, jql string, fields []string, maxResults int) ([]jira.Issue, error)
	DownloadAttachment(ctx context.Context, contentURL string) ([]byte, error)
}

// Summarizer produces a short narrative summary of a text.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// Report is the per-issue outcome of a triage run.
type Report struct {
	Key          string
	Title        string
	EmailSubject string

	DescriptionSummary Summary
	EmailSummary       Summary
}

// Options configure a Pipeline.
type Options struct {
	Jira       IssueSource
	Summarizer Summarizer
	Log        *slog.Logger

	// TempDir receives the short-lived attachment files; empty means the
	// system temp dir.
	TempDir string

	// MaxResults caps the search; <= 0 uses the client default.
	MaxResults int
}

// Pipeline runs the triage flow strictly sequentially: issues are processed
// one at a time, in search order, with no retries.
type Pipeline struct {
	jira       IssueSource
	summarizer Summarizer
	log        *slog.Logger
	tempDir    string
	maxResults int
}

// New validates the options and builds a Pipeline.
func New(opts Options) (*Pipeline, error) {
	if opts.Jira == nil {
		return nil, errors.New("jira client is required")
	}
	if opts.Summarizer == nil {
		return nil, errors.New("summarizer is required")
	}
	log := opts.Log
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Pipeline{
		jira:       opts.Jira,
		summarizer: opts.Summarizer,
		log:        log,
		tempDir:    opts.TempDir,
		maxResults: opts.MaxResults,
	}, nil
}

// Run searches with the given JQL and triages every matching issue that
// carries a .msg attachment. A search failure aborts the run; every failure
// after that point degrades to a failure Summary on the affected issue only.
func (p *Pipeline) Run(ctx context.Context, jql string) ([]Report, error) {
	issues, err := p.jira.SearchIssues(ctx, jql, triageFields, p.maxResults)
	if err != nil {
		return nil, fmt.Errorf("search issues: %w", err)
	}
	p.log.Info("search complete", "issues", len(issues))

	matched := FilterMsgIssues(issues)
	p.log.Info("kept issues with .msg attachments", "matched", len(matched))

	reports := make([]Report, 0, len(matched))
	for _, issue := range matched {
		reports = append(reports, p.processIssue(ctx, issue))
	}
	return reports, nil
}

func (p *Pipeline) processIssue(ctx context.Context, issue jira.Issue) Report {
	log := p.log.With("issue", issue.Key)
	log.Info("triaging issue", "title", issue.Fields.Summary)

	rep := Report{Key: issue.Key, Title: issue.Fields.Summary}

	desc := adf.ExtractText(issue.Fields.Description)
	rep.DescriptionSummary = p.summarize(ctx, log, "description", desc)

	att, ok := FirstMsgAttachment(issue)
	if !ok {
		rep.EmailSummary = Summary{Err: errors.New("issue has no .msg attachment")}
		return rep
	}

	msg, err := p.fetchEmail(ctx, log, att)
	if err != nil {
		log.Warn("email step failed", "error", err)
		rep.EmailSummary = Summary{Err: err}
		return rep
	}
	rep.EmailSubject = msg.Subject
	rep.EmailSummary = p.summarize(ctx, log, "email body", msg.Body)
	return rep
}

// summarize short-circuits on empty input without touching the model.
func (p *Pipeline) summarize(ctx context.Context, log *slog.Logger, part, text string) Summary {
	if strings.TrimSpace(text) == "" {
		log.Debug("nothing to summarize", "part", part)
		return Summary{}
	}
	out, err := p.summarizer.Summarize(ctx, text)
	if err != nil {
		log.Warn("summary failed", "part", part, "error", err)
		return Summary{Err: err}
	}
	log.Debug("summary generated", "part", part, "chars", len(out))
	return Summary{Text: out}
}

// fetchEmail downloads the attachment into a scoped temp file, parses it and
// removes the file before returning, on every path.
func (p *Pipeline) fetchEmail(ctx context.Context, log *slog.Logger, att jira.Attachment) (msgfile.Message, error) {
	b, err := p.jira.DownloadAttachment(ctx, att.Content)
	if err != nil {
		return msgfile.Message{}, fmt.Errorf("download attachment %q: %w", att.Filename, err)
	}

	f, err := os.CreateTemp(p.tempDir, "attachment-*.msg")
	if err != nil {
		return msgfile.Message{}, fmt.Errorf("create temp file: %w", err)
	}
	path := f.Name()
	defer func() {
		_ = f.Close()
		_ = os.Remove(path)
	}()
	log.Debug("wrote attachment to temp file", "file", att.Filename, "path", path, "bytes", len(b))

	if _, err := f.Write(b); err != nil {
		return msgfile.Message{}, fmt.Errorf("write temp file: %w", err)
	}

	msg, err := msgfile.Extract(f)
	if err != nil {
		return msgfile.Message{}, fmt.Errorf("parse attachment %q: %w", att.Filename, err)
	}
	log.Debug("parsed msg attachment", "file", att.Filename, "subject", msg.Subject, "body_chars", len(msg.Body))
	return msg, nil
}
