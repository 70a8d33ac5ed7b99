package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/foxzi/lure/internal/client"
	"github.com/foxzi/lure/internal/models"
	"github.com/foxzi/lure/internal/smtpcheck"
	"github.com/foxzi/lure/internal/views"
)

var (
	testEmailTo        string
	testEmailFirstName string
	testEmailLastName  string
	testEmailPosition  string
	testEmailTemplate  int64
	testEmailPage      int64
	testEmailURL       string
	testEmailSkipCheck bool
)

var smtpCheckCmd = &cobra.Command{
	Use:   "check <id>",
	Short: "Connect to a sending profile's SMTP server",
	Long: `Dial the profile's host, say EHLO, upgrade with STARTTLS when offered and
authenticate when the profile has credentials. Nothing is sent.`,
	Args: cobra.ExactArgs(1),
	RunE: runSMTPCheck,
}

var smtpTestEmailCmd = &cobra.Command{
	Use:   "test-email <id>",
	Short: "Send a test email through a sending profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runSMTPTestEmail,
}

func init() {
	smtpTestEmailCmd.Flags().StringVar(&testEmailTo, "to", "", "Recipient email (required)")
	smtpTestEmailCmd.Flags().StringVar(&testEmailFirstName, "first-name", "", "Recipient first name")
	smtpTestEmailCmd.Flags().StringVar(&testEmailLastName, "last-name", "", "Recipient last name")
	smtpTestEmailCmd.Flags().StringVar(&testEmailPosition, "position", "", "Recipient position")
	smtpTestEmailCmd.Flags().Int64Var(&testEmailTemplate, "template", 0, "Template id (default: server test template)")
	smtpTestEmailCmd.Flags().Int64Var(&testEmailPage, "page", 0, "Landing page id")
	smtpTestEmailCmd.Flags().StringVar(&testEmailURL, "url", "", "Phishing URL used in the template")
	smtpTestEmailCmd.Flags().BoolVar(&testEmailSkipCheck, "skip-check", false, "Do not probe the SMTP server first")
	smtpTestEmailCmd.MarkFlagRequired("to")

	smtpCmd.AddCommand(smtpCheckCmd, smtpTestEmailCmd)
}

func fetchProfile(ctx context.Context, a *app, arg string) (models.SMTP, error) {
	id, err := parseID(arg)
	if err != nil {
		return models.SMTP{}, err
	}

	p, err := a.client.SendingProfile(ctx, id).Await(ctx)
	if err != nil {
		a.notifier.Error(client.Message(err, "Error fetching profile"))
		return models.SMTP{}, err
	}
	return p, nil
}

func runSMTPCheck(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	p, err := fetchProfile(ctx, a, args[0])
	if err != nil {
		return err
	}

	prober := smtpcheck.NewProber(a.cfg.Probe.Hostname, a.cfg.Probe.Timeout, a.logger)
	res, err := prober.Probe(ctx, p)
	if err != nil {
		a.notifier.Error(fmt.Sprintf("SMTP check failed: %v", err))
		return err
	}

	a.notifier.Success(fmt.Sprintf("SMTP server %s is reachable", res.Addr))
	return writeProbeResult(cmd.OutOrStdout(), res)
}

func writeProbeResult(out io.Writer, res *smtpcheck.Result) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Address:\t%s\n", res.Addr)
	if res.TLS {
		fmt.Fprintf(w, "TLS:\t%s\n", res.TLSVersion)
	} else {
		fmt.Fprintf(w, "TLS:\tno\n")
	}
	fmt.Fprintf(w, "Authenticated:\t%v\n", res.Auth)
	fmt.Fprintf(w, "Extensions:\t%s\n", strings.Join(res.Extensions, ", "))
	fmt.Fprintf(w, "Latency:\t%s\n", res.Latency.Round(time.Millisecond))
	return w.Flush()
}

func runSMTPTestEmail(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	p, err := fetchProfile(ctx, a, args[0])
	if err != nil {
		return err
	}

	if !testEmailSkipCheck {
		prober := smtpcheck.NewProber(a.cfg.Probe.Hostname, a.cfg.Probe.Timeout, a.logger)
		if _, err := prober.Probe(ctx, p); err != nil {
			a.notifier.Error(fmt.Sprintf("SMTP check failed: %v", err))
			return err
		}
	}

	req := models.SendTestEmailRequest{
		SMTP:      p,
		URL:       testEmailURL,
		FirstName: testEmailFirstName,
		LastName:  testEmailLastName,
		Email:     testEmailTo,
		Position:  testEmailPosition,
	}
	if testEmailTemplate > 0 {
		if req.Template, err = a.client.Template(ctx, testEmailTemplate).Await(ctx); err != nil {
			a.notifier.Error(client.Message(err, "Error fetching template"))
			return err
		}
	}
	if testEmailPage > 0 {
		if req.Page, err = a.client.Page(ctx, testEmailPage).Await(ctx); err != nil {
			a.notifier.Error(client.Message(err, "Error fetching page"))
			return err
		}
	}

	return views.RunAction(ctx, nil, a.confirm, a.notifier, views.Action{
		Success: "Email Sent!",
		Failure: "Error sending email",
		Run: func(ctx context.Context) error {
			_, err := a.client.SendTestEmail(ctx, req).Await(ctx)
			return err
		},
	})
}
