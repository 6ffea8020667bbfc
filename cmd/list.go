package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"jira-support-triage/internal/config"
	"jira-support-triage/internal/render"
	"jira-support-triage/internal/triage"
	"jira-support-triage/pkg/jira"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent support requests carrying .msg attachments",
	RunE:  runList,
}

var listMaxResults int

// listFields is the Jira field set the listing view needs.
var listFields = []string{"summary", "status", "created", "attachment"}

func init() {
	listCmd.Flags().IntVar(&listMaxResults, "max-results", jira.DefaultMaxResults, "maximum issues requested from the search")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadSearch()
	if err != nil {
		log.Error("configuration incomplete", "error", err)
		return err
	}

	client, err := jira.NewClient(cfg.URL, cfg.User, cfg.APIToken, log)
	if err != nil {
		return err
	}

	issues, err := client.SearchIssues(cmd.Context(), cfg.JQL, listFields, listMaxResults)
	if err != nil {
		log.Error("search failed", "error", err)
		return err
	}

	matched := triage.FilterMsgIssues(issues)
	log.Info("search complete", "issues", len(issues), "with_msg", len(matched))

	fmt.Println(render.IssueTable(matched))
	return nil
}
