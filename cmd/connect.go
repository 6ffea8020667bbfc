package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"jira-support-triage/internal/config"
	"jira-support-triage/internal/render"
	"jira-support-triage/pkg/jira"
)

var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Verify the Jira credentials and print who you are connected as",
	RunE:  runConnect,
}

func init() {
	rootCmd.AddCommand(connectCmd)
}

func runConnect(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadJira()
	if err != nil {
		log.Error("configuration incomplete", "error", err)
		return err
	}

	client, err := jira.NewClient(cfg.URL, cfg.User, cfg.APIToken, log)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	me, err := client.Myself(ctx)
	if err != nil {
		log.Error("jira connection failed", "error", err)
		return err
	}
	info, err := client.Server(ctx)
	if err != nil {
		log.Error("jira connection failed", "error", err)
		return err
	}

	log.Info("connected to jira", "user", me.DisplayName, "server", info.ServerTitle, "version", info.Version)
	fmt.Println(render.ConnectSummary(me, info))
	return nil
}
