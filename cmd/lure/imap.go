package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/foxzi/lure/internal/client"
	"github.com/foxzi/lure/internal/models"
	"github.com/foxzi/lure/internal/views"
)

var imapFile string

var imapCmd = &cobra.Command{
	Use:   "imap",
	Short: "Manage the reported-email mailbox",
}

var imapShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show IMAP settings",
	Args:  cobra.NoArgs,
	RunE:  runIMAPShow,
}

var imapSaveCmd = &cobra.Command{
	Use:   "save -f <file>",
	Short: "Save IMAP settings from a JSON file",
	Args:  cobra.NoArgs,
	RunE:  runIMAPSave,
}

var imapValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Test a login with the saved or given IMAP settings",
	Args:  cobra.NoArgs,
	RunE:  runIMAPValidate,
}

func init() {
	imapSaveCmd.Flags().StringVarP(&imapFile, "file", "f", "", "JSON settings, - for stdin (required)")
	imapSaveCmd.MarkFlagRequired("file")
	imapValidateCmd.Flags().StringVarP(&imapFile, "file", "f", "", "JSON settings to test instead of the saved ones")

	imapCmd.AddCommand(imapShowCmd, imapSaveCmd, imapValidateCmd)
	rootCmd.AddCommand(imapCmd)
}

// currentIMAP returns the saved settings; the server answers with a list
// holding at most one entry
func currentIMAP(ctx context.Context, a *app) (models.IMAP, bool, error) {
	list, err := a.client.IMAP(ctx).Await(ctx)
	if err != nil {
		a.notifier.Error(client.Message(err, "Error fetching IMAP settings"))
		return models.IMAP{}, false, err
	}
	if len(list) == 0 {
		return models.IMAP{}, false, nil
	}
	return list[0], true, nil
}

func runIMAPShow(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	s, ok, err := currentIMAP(cmd.Context(), a)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(cmd.OutOrStdout(), "IMAP is not configured.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Enabled:\t%s\n", yesNo(s.Enabled))
	fmt.Fprintf(w, "Host:\t%s:%d\n", views.Sanitize(s.Host), s.Port)
	fmt.Fprintf(w, "Username:\t%s\n", views.Sanitize(s.Username))
	fmt.Fprintf(w, "TLS:\t%s\n", yesNo(s.TLS))
	fmt.Fprintf(w, "Ignore cert errors:\t%s\n", yesNo(s.IgnoreCertErrors))
	fmt.Fprintf(w, "Folder:\t%s\n", views.Sanitize(s.Folder))
	fmt.Fprintf(w, "Restrict domain:\t%s\n", views.Sanitize(s.RestrictDomain))
	fmt.Fprintf(w, "Delete reported:\t%s\n", yesNo(s.DeleteReportedCampaignEmail))
	fmt.Fprintf(w, "Poll frequency:\t%ds\n", s.IMAPFreq)
	fmt.Fprintf(w, "Last login:\t%s\n", views.FormatTime(s.LastLogin))
	return w.Flush()
}

func runIMAPSave(cmd *cobra.Command, args []string) error {
	var s models.IMAP
	if err := readJSONFile(imapFile, &s); err != nil {
		return err
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	return views.RunAction(cmd.Context(), nil, a.confirm, a.notifier, views.Action{
		Success: "Successfully updated IMAP settings.",
		Failure: "Error saving IMAP settings",
		Run: func(ctx context.Context) error {
			_, err := a.client.SaveIMAP(ctx, s).Await(ctx)
			return err
		},
	})
}

func runIMAPValidate(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	var s models.IMAP
	if imapFile != "" {
		if err := readJSONFile(imapFile, &s); err != nil {
			return err
		}
	} else {
		saved, ok, err := currentIMAP(ctx, a)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("IMAP is not configured (use -f to test settings)")
		}
		s = saved
	}

	return views.RunAction(ctx, nil, a.confirm, a.notifier, views.Action{
		Success: "Success: Logged in with IMAP",
		Failure: "Error validating IMAP settings",
		Run: func(ctx context.Context) error {
			_, err := a.client.ValidateIMAP(ctx, s).Await(ctx)
			return err
		},
	})
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
