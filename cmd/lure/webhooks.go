package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/foxzi/lure/internal/views"
)

var webhooksPingCmd = &cobra.Command{
	Use:   "ping <id>",
	Short: "Send a test event to a webhook",
	Args:  cobra.ExactArgs(1),
	RunE:  runWebhooksPing,
}

func init() {
	webhooksCmd.AddCommand(webhooksPingCmd)
}

func runWebhooksPing(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	return views.RunAction(cmd.Context(), nil, a.confirm, a.notifier, views.Action{
		Success: "Webhook pinged successfully!",
		Failure: "Error pinging webhook",
		Run: func(ctx context.Context) error {
			_, err := a.client.PingWebhook(ctx, id).Await(ctx)
			return err
		},
	})
}
