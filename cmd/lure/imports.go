package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/foxzi/lure/internal/client"
	"github.com/foxzi/lure/internal/models"
	"github.com/foxzi/lure/internal/session"
	"github.com/foxzi/lure/internal/views"
)

var (
	importFile             string
	importConvertLinks     bool
	importTemplateName     string
	importURL              string
	importIncludeResources bool
	importPageName         string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import emails and websites",
}

var importEmailCmd = &cobra.Command{
	Use:   "email -f <file>",
	Short: "Parse a raw email into template content",
	Args:  cobra.NoArgs,
	RunE:  runImportEmail,
}

var importSiteCmd = &cobra.Command{
	Use:   "site --url <url>",
	Short: "Clone a website for use as a landing page",
	Args:  cobra.NoArgs,
	RunE:  runImportSite,
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset your API key",
	Long: `Ask the server for a new API key. The old key stops working immediately.
When the session came from a saved profile, the profile is updated.`,
	Args: cobra.NoArgs,
	RunE: runReset,
}

func init() {
	importEmailCmd.Flags().StringVarP(&importFile, "file", "f", "", "Raw email (.eml), - for stdin (required)")
	importEmailCmd.Flags().BoolVar(&importConvertLinks, "convert-links", true, "Point links at the phishing URL")
	importEmailCmd.Flags().StringVar(&importTemplateName, "save-template", "", "Create a template with this name from the email")
	importEmailCmd.MarkFlagRequired("file")

	importSiteCmd.Flags().StringVar(&importURL, "url", "", "Website URL (required)")
	importSiteCmd.Flags().BoolVar(&importIncludeResources, "include-resources", false, "Inline the site's resources")
	importSiteCmd.Flags().StringVar(&importPageName, "save-page", "", "Create a landing page with this name from the site")
	importSiteCmd.MarkFlagRequired("url")

	importCmd.AddCommand(importEmailCmd, importSiteCmd)
	rootCmd.AddCommand(importCmd, resetCmd)
}

func runImportEmail(cmd *cobra.Command, args []string) error {
	var (
		raw []byte
		err error
	)
	if importFile == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(importFile)
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", importFile, err)
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	email, err := a.client.ImportEmail(ctx, models.ImportEmailRequest{
		Content:      string(raw),
		ConvertLinks: importConvertLinks,
	}).Await(ctx)
	if err != nil {
		a.notifier.Error(client.Message(err, "Error importing email"))
		return err
	}

	if importTemplateName == "" {
		return printJSON(cmd.OutOrStdout(), email)
	}

	tmpl := models.Template{
		Name:         importTemplateName,
		Subject:      email.Subject,
		Text:         email.Text,
		HTML:         email.HTML,
		Attachments:  []models.Attachment{},
		ModifiedDate: time.Now().UTC(),
	}
	return views.RunAction(ctx, views.Templates(a.client, a.surface(cmd)), a.confirm, a.notifier, views.Action{
		Success: "Template added successfully!",
		Failure: "Error saving template",
		Run: func(ctx context.Context) error {
			_, err := a.client.SaveTemplate(ctx, tmpl).Await(ctx)
			return err
		},
	})
}

func runImportSite(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	site, err := a.client.ImportSite(ctx, models.CloneSiteRequest{
		URL:              importURL,
		IncludeResources: importIncludeResources,
	}).Await(ctx)
	if err != nil {
		a.notifier.Error(client.Message(err, "Error importing site"))
		return err
	}

	if importPageName == "" {
		fmt.Fprint(cmd.OutOrStdout(), site.HTML)
		return nil
	}

	page := models.Page{
		Name:         importPageName,
		HTML:         site.HTML,
		ModifiedDate: time.Now().UTC(),
	}
	return views.RunAction(ctx, views.Pages(a.client, a.surface(cmd)), a.confirm, a.notifier, views.Action{
		Success: "Page added successfully!",
		Failure: "Error saving page",
		Run: func(ctx context.Context) error {
			_, err := a.client.SavePage(ctx, page).Await(ctx)
			return err
		},
	})
}

func runReset(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	var key string
	err = views.RunAction(cmd.Context(), nil, a.confirm, a.notifier, views.Action{
		Confirm: "Reset API key?",
		Detail:  "Every client using the current key will have to be updated.",
		Button:  "Reset",
		Success: "API Key successfully reset!",
		Failure: "Error resetting API key",
		Run: func(ctx context.Context) error {
			resp, err := a.client.ResetAPIKey(ctx).Await(ctx)
			if err != nil {
				return err
			}
			key, _ = resp.Data.(string)
			return nil
		},
	})
	if err != nil {
		return err
	}

	if key == "" {
		return nil
	}
	if a.profile == "" {
		fmt.Fprintf(cmd.OutOrStdout(), "New API key: %s\n", key)
		return nil
	}
	return updateProfileKey(a.cfg.Profiles.Path, a.profile, key)
}

func updateProfileKey(path, name, key string) error {
	store, err := session.OpenProfileStore(path)
	if err != nil {
		return err
	}
	defer store.Close()

	p, err := store.Get(name)
	if err != nil {
		return fmt.Errorf("failed to read profile: %w", err)
	}
	if p == nil {
		return fmt.Errorf("profile not found: %s", name)
	}

	p.APIKey = key
	if err := store.Save(p); err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	fmt.Printf("Profile %s updated with the new API key\n", name)
	return nil
}
