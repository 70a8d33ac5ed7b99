package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/foxzi/lure/internal/client"
	"github.com/foxzi/lure/internal/models"
	"github.com/foxzi/lure/internal/views"
)

// resource describes a collection managed with list/show/create/update/delete
type resource[T any] struct {
	Use     string
	Aliases []string
	// Name is the singular, capitalized name used in messages
	Name string

	List   func(c *client.Client, s views.Surface) *views.ListView[T]
	Get    func(c *client.Client, ctx context.Context, id int64) *client.Future[T]
	Save   func(c *client.Client, ctx context.Context, v T) *client.Future[T]
	Delete func(c *client.Client, ctx context.Context, id int64) *client.Future[models.Response]
	SetID  func(v *T, id int64)
}

var templatesCmd = resource[models.Template]{
	Use:     "templates",
	Aliases: []string{"template"},
	Name:    "Template",
	List:    views.Templates,
	Get:     (*client.Client).Template,
	Save:    (*client.Client).SaveTemplate,
	Delete:  (*client.Client).DeleteTemplate,
	SetID:   func(v *models.Template, id int64) { v.ID = id },
}.command()

var pagesCmd = resource[models.Page]{
	Use:     "pages",
	Aliases: []string{"page"},
	Name:    "Page",
	List:    views.Pages,
	Get:     (*client.Client).Page,
	Save:    (*client.Client).SavePage,
	Delete:  (*client.Client).DeletePage,
	SetID:   func(v *models.Page, id int64) { v.ID = id },
}.command()

var smtpCmd = resource[models.SMTP]{
	Use:     "smtp",
	Aliases: []string{"sending-profiles"},
	Name:    "Profile",
	List:    views.SendingProfiles,
	Get:     (*client.Client).SendingProfile,
	Save:    (*client.Client).SaveSendingProfile,
	Delete:  (*client.Client).DeleteSendingProfile,
	SetID:   func(v *models.SMTP, id int64) { v.ID = id },
}.command()

var usersCmd = resource[models.User]{
	Use:     "users",
	Aliases: []string{"user"},
	Name:    "User",
	List:    views.Users,
	Get:     (*client.Client).User,
	Save:    (*client.Client).SaveUser,
	Delete:  (*client.Client).DeleteUser,
	SetID:   func(v *models.User, id int64) { v.ID = id },
}.command()

var webhooksCmd = resource[models.Webhook]{
	Use:     "webhooks",
	Aliases: []string{"webhook"},
	Name:    "Webhook",
	List:    views.Webhooks,
	Get:     (*client.Client).Webhook,
	Save:    (*client.Client).SaveWebhook,
	Delete:  (*client.Client).DeleteWebhook,
	SetID:   func(v *models.Webhook, id int64) { v.ID = id },
}.command()

func init() {
	rootCmd.AddCommand(templatesCmd, pagesCmd, smtpCmd, usersCmd, webhooksCmd)
}

func (r resource[T]) command() *cobra.Command {
	lower := strings.ToLower(r.Name)

	cmd := &cobra.Command{
		Use:     r.Use,
		Aliases: r.Aliases,
		Short:   fmt.Sprintf("Manage %s", r.Use),
	}

	list := &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List %s", r.Use),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			return r.List(a.client, a.surface(cmd)).Load(cmd.Context())
		},
	}

	show := &cobra.Command{
		Use:   "show <id>",
		Short: fmt.Sprintf("Show a %s as JSON", lower),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := newApp(cmd)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			v, err := r.Get(a.client, ctx, id).Await(ctx)
			if err != nil {
				a.notifier.Error(client.Message(err, "Error fetching "+lower))
				return err
			}
			return printJSON(cmd.OutOrStdout(), v)
		},
	}

	var createFile string
	create := &cobra.Command{
		Use:   "create -f <file>",
		Short: fmt.Sprintf("Create a %s from a JSON file", lower),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var v T
			if err := readJSONFile(createFile, &v); err != nil {
				return err
			}
			r.SetID(&v, 0)
			return r.save(cmd, v, r.Name+" added successfully!")
		},
	}
	create.Flags().StringVarP(&createFile, "file", "f", "", "JSON definition, - for stdin (required)")
	create.MarkFlagRequired("file")

	var updateFile string
	update := &cobra.Command{
		Use:   "update <id> -f <file>",
		Short: fmt.Sprintf("Replace a %s from a JSON file", lower),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var v T
			if err := readJSONFile(updateFile, &v); err != nil {
				return err
			}
			r.SetID(&v, id)
			return r.save(cmd, v, r.Name+" edited successfully!")
		},
	}
	update.Flags().StringVarP(&updateFile, "file", "f", "", "JSON definition, - for stdin (required)")
	update.MarkFlagRequired("file")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: fmt.Sprintf("Delete a %s", lower),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := newApp(cmd)
			if err != nil {
				return err
			}

			return views.RunAction(cmd.Context(), r.List(a.client, a.surface(cmd)), a.confirm, a.notifier, views.Action{
				Confirm: "Are you sure?",
				Detail:  fmt.Sprintf("This will delete the %s. This can't be undone!", lower),
				Button:  "Delete",
				Success: r.Name + " deleted successfully!",
				Failure: "Error deleting " + lower,
				Run: func(ctx context.Context) error {
					_, err := r.Delete(a.client, ctx, id).Await(ctx)
					return err
				},
			})
		},
	}

	cmd.AddCommand(list, show, create, update, del)
	return cmd
}

func (r resource[T]) save(cmd *cobra.Command, v T, success string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	return views.RunAction(cmd.Context(), r.List(a.client, a.surface(cmd)), a.confirm, a.notifier, views.Action{
		Success: success,
		Failure: "Error saving " + strings.ToLower(r.Name),
		Run: func(ctx context.Context) error {
			_, err := r.Save(a.client, ctx, v).Await(ctx)
			return err
		},
	})
}
