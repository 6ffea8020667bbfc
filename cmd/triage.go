package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"jira-support-triage/internal/config"
	"jira-support-triage/internal/render"
	"jira-support-triage/internal/triage"
	"jira-support-triage/pkg/jira"
	"jira-support-triage/pkg/lmstudio"
)

var triageCmd = &cobra.Command{
	Use:   "triage",
	Short: "Summarize recent .msg support requests with a local AI model",
	Long: `triage runs the full flow: verify the LM Studio endpoint, search Jira with
the configured JQL, keep the issues carrying .msg attachments, and print two
AI summaries per issue (description and attached email).`,
	RunE: runTriage,
}

var triageMaxResults int

func init() {
	triageCmd.Flags().IntVar(&triageMaxResults, "max-results", jira.DefaultMaxResults, "maximum issues requested from the search")
	rootCmd.AddCommand(triageCmd)
}

func runTriage(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadTriage()
	if err != nil {
		log.Error("configuration incomplete", "error", err)
		return err
	}

	ctx := cmd.Context()

	// The AI endpoint is probed before any Jira work so a dead server fails
	// the run immediately.
	lm, err := lmstudio.Connect(ctx, lmstudio.Config{
		BaseURL: cfg.LMBaseURL,
		APIKey:  cfg.LMAPIKey,
		Model:   cfg.LMModel,
	}, log)
	if err != nil {
		log.Error("ai endpoint unavailable", "error", err)
		return err
	}

	client, err := jira.NewClient(cfg.URL, cfg.User, cfg.APIToken, log)
	if err != nil {
		return err
	}

	pipeline, err := triage.New(triage.Options{
		Jira:       client,
		Summarizer: lm,
		Log:        log,
		MaxResults: triageMaxResults,
	})
	if err != nil {
		return err
	}

	reports, err := pipeline.Run(ctx, cfg.JQL)
	if err != nil {
		log.Error("triage run failed", "error", err)
		return err
	}

	fmt.Println(render.TriagePanels(reports))
	log.Info("triage complete", "issues", len(reports))
	return nil
}
