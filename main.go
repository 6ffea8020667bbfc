package main

import "jira-support-triage/cmd"

func main() {
	cmd.Execute()
}
