package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/foxzi/lure/internal/client"
	"github.com/foxzi/lure/internal/models"
	"github.com/foxzi/lure/internal/qrcode"
	"github.com/foxzi/lure/internal/views"
)

var (
	qrURL       string
	qrSize      string
	qrStore     bool
	qrOutputDir string
)

var qrCmd = &cobra.Command{
	Use:     "qr",
	Aliases: []string{"qrcodes"},
	Short:   "Generate and manage QR codes",
}

var qrListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored QR codes",
	Args:  cobra.NoArgs,
	RunE:  runQRList,
}

var qrGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Render a QR code for a URL",
	Args:  cobra.NoArgs,
	RunE:  runQRGenerate,
}

var qrDownloadCmd = &cobra.Command{
	Use:   "download <id>",
	Short: "Download a stored QR code as PNG",
	Args:  cobra.ExactArgs(1),
	RunE:  runQRDownload,
}

var qrDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored QR code",
	Args:  cobra.ExactArgs(1),
	RunE:  runQRDelete,
}

func init() {
	qrGenerateCmd.Flags().StringVar(&qrURL, "url", "", "URL to encode (required)")
	qrGenerateCmd.Flags().StringVar(&qrSize, "size", qrcode.DefaultSize, "Image size in pixels")
	qrGenerateCmd.Flags().BoolVar(&qrStore, "store", false, "Keep the QR code on the server")
	qrGenerateCmd.Flags().StringVarP(&qrOutputDir, "output", "o", "", "Output directory (default: output.download_dir)")
	qrDownloadCmd.Flags().StringVarP(&qrOutputDir, "output", "o", "", "Output directory (default: output.download_dir)")

	qrCmd.AddCommand(qrListCmd, qrGenerateCmd, qrDownloadCmd, qrDeleteCmd)
	rootCmd.AddCommand(qrCmd)
}

func (a *app) downloadDir() string {
	if qrOutputDir != "" {
		return qrOutputDir
	}
	return a.cfg.Output.DownloadDir
}

func runQRList(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	return views.QRCodes(a.client, a.surface(cmd)).Load(cmd.Context())
}

func runQRGenerate(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	svc := qrcode.NewService(a.client, a.logger)
	img, err := svc.Generate(cmd.Context(), models.QRCodeRequest{
		URL:       qrURL,
		Size:      qrSize,
		StoreInDB: qrStore,
	})
	if err != nil {
		a.notifier.Error(qrMessage(err, "Error generating QR code"))
		return err
	}

	path, err := qrcode.Save(a.downloadDir(), img.Filename, img.PNG)
	if err != nil {
		return err
	}

	msg := fmt.Sprintf("QR code saved to %s", path)
	if img.Stored != nil {
		msg = fmt.Sprintf("QR code %d stored and saved to %s", img.Stored.ID, path)
	}
	a.notifier.Success(msg)
	return nil
}

func runQRDownload(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	img, err := qrcode.NewService(a.client, a.logger).Download(cmd.Context(), id)
	if err != nil {
		a.notifier.Error(qrMessage(err, "Error downloading QR code"))
		return err
	}

	path, err := qrcode.Save(a.downloadDir(), img.Filename, img.PNG)
	if err != nil {
		return err
	}

	a.notifier.Success(fmt.Sprintf("QR code saved to %s", path))
	return nil
}

func runQRDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	return views.RunAction(cmd.Context(), views.QRCodes(a.client, a.surface(cmd)), a.confirm, a.notifier, views.Action{
		Confirm: "Are you sure?",
		Detail:  "This will delete the QR code. This can't be undone!",
		Button:  "Delete",
		Success: "QR code deleted successfully!",
		Failure: "Error deleting QR code",
		Run: func(ctx context.Context) error {
			_, err := a.client.DeleteQRCode(ctx, id).Await(ctx)
			return err
		},
	})
}

// qrMessage prefers the server's message and falls back to the local
// validation error before using fallback
func qrMessage(err error, fallback string) string {
	if errors.Is(err, qrcode.ErrURLRequired) {
		return err.Error()
	}
	return client.Message(err, fallback)
}
