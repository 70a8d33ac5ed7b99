package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/foxzi/lure/internal/client"
	"github.com/foxzi/lure/internal/views"
)

var campaignsCmd = &cobra.Command{
	Use:     "campaigns",
	Aliases: []string{"campaign"},
	Short:   "Manage campaigns",
}

var campaignsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List campaigns with their stats",
	Args:  cobra.NoArgs,
	RunE:  runCampaignsList,
}

var campaignsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show campaign details",
	Args:  cobra.ExactArgs(1),
	RunE:  runCampaignsShow,
}

var campaignsResultsCmd = &cobra.Command{
	Use:   "results <id>",
	Short: "Show per-target campaign results",
	Args:  cobra.ExactArgs(1),
	RunE:  runCampaignsResults,
}

var campaignsCompleteCmd = &cobra.Command{
	Use:   "complete <id>",
	Short: "Mark a campaign as complete",
	Args:  cobra.ExactArgs(1),
	RunE:  runCampaignsComplete,
}

var campaignsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a campaign",
	Args:  cobra.ExactArgs(1),
	RunE:  runCampaignsDelete,
}

func init() {
	campaignsCmd.AddCommand(
		campaignsListCmd,
		campaignsShowCmd,
		campaignsResultsCmd,
		campaignsCompleteCmd,
		campaignsDeleteCmd,
	)
	rootCmd.AddCommand(campaignsCmd)
}

func runCampaignsList(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	return views.Campaigns(a.client, a.surface(cmd)).Load(cmd.Context())
}

func runCampaignsShow(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	// Both requests are async; issue them together and wait for both
	ctx := cmd.Context()
	campF := a.client.Campaign(ctx, id)
	sumF := a.client.CampaignSummary(ctx, id)

	camp, err := campF.Await(ctx)
	if err != nil {
		a.notifier.Error(client.Message(err, "Error fetching campaign"))
		return err
	}
	sum, err := sumF.Await(ctx)
	if err != nil {
		a.notifier.Error(client.Message(err, "Error fetching campaign"))
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID:\t%d\n", camp.ID)
	fmt.Fprintf(w, "Name:\t%s\n", views.Sanitize(camp.Name))
	fmt.Fprintf(w, "Status:\t%s\n", views.Sanitize(camp.Status))
	fmt.Fprintf(w, "Created:\t%s\n", views.FormatTime(camp.CreatedDate))
	fmt.Fprintf(w, "Launched:\t%s\n", views.FormatTime(camp.LaunchDate))
	fmt.Fprintf(w, "Completed:\t%s\n", views.FormatTime(camp.CompletedDate))
	fmt.Fprintf(w, "Template:\t%s\n", views.Sanitize(camp.Template.Name))
	fmt.Fprintf(w, "Page:\t%s\n", views.Sanitize(camp.Page.Name))
	fmt.Fprintf(w, "Profile:\t%s\n", views.Sanitize(camp.SMTP.Name))
	fmt.Fprintf(w, "URL:\t%s\n", views.Sanitize(camp.URL))
	for _, g := range camp.Groups {
		fmt.Fprintf(w, "Group:\t%s\n", views.Sanitize(g.Name))
	}
	s := sum.Stats
	fmt.Fprintf(w, "Stats:\ttotal %d, sent %d, opened %d, clicked %d, submitted %d, reported %d, errors %d\n",
		s.Total, s.EmailsSent, s.OpenedEmail, s.ClickedLink, s.SubmittedData, s.EmailReported, s.Error)
	return w.Flush()
}

func runCampaignsResults(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	return views.CampaignResults(a.client, a.surface(cmd), id).Load(cmd.Context())
}

func runCampaignsComplete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	return views.RunAction(cmd.Context(), views.Campaigns(a.client, a.surface(cmd)), a.confirm, a.notifier, views.Action{
		Confirm: "Are you sure?",
		Detail:  "Events for this campaign will no longer be recorded",
		Button:  "Complete",
		Success: "Campaign completed successfully!",
		Failure: "Error completing campaign",
		Run: func(ctx context.Context) error {
			_, err := a.client.CompleteCampaign(ctx, id).Await(ctx)
			return err
		},
	})
}

func runCampaignsDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	return views.RunAction(cmd.Context(), views.Campaigns(a.client, a.surface(cmd)), a.confirm, a.notifier, views.Action{
		Confirm: "Are you sure?",
		Detail:  "This will delete the campaign. This can't be undone!",
		Button:  "Delete",
		Success: "Campaign deleted successfully!",
		Failure: "Error deleting campaign",
		Run: func(ctx context.Context) error {
			_, err := a.client.DeleteCampaign(ctx, id).Await(ctx)
			return err
		},
	})
}
