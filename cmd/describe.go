package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"jira-support-triage/internal/config"
	"jira-support-triage/internal/render"
	"jira-support-triage/pkg/adf"
	"jira-support-triage/pkg/jira"
)

var describeCmd = &cobra.Command{
	Use:   "describe <issue-key>",
	Short: "Print the plain-text description of one issue",
	Args:  cobra.ExactArgs(1),
	RunE:  runDescribe,
}

func init() {
	rootCmd.AddCommand(describeCmd)
}

func runDescribe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadJira()
	if err != nil {
		log.Error("configuration incomplete", "error", err)
		return err
	}

	client, err := jira.NewClient(cfg.URL, cfg.User, cfg.APIToken, log)
	if err != nil {
		return err
	}

	key := args[0]
	issue, err := client.GetIssue(cmd.Context(), key, []string{"summary", "description"})
	if err != nil {
		log.Error("issue fetch failed", "issue", key, "error", err)
		return err
	}
	if issue == nil {
		return fmt.Errorf("issue %s not found or not visible to this user", key)
	}

	text := adf.ExtractText(issue.Fields.Description)
	fmt.Println(render.DescriptionPanel(issue.Key, issue.Fields.Summary, text))
	return nil
}
