// Package qrcode generates and downloads QR code images through the API
package qrcode

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/foxzi/lure/internal/client"
	"github.com/foxzi/lure/internal/models"
)

// DefaultSize is used when a request does not specify one
const DefaultSize = "256"

// ErrURLRequired is returned before any request when the URL is empty
var ErrURLRequired = errors.New("please enter a URL")

// API is the part of the client the QR workflow uses
type API interface {
	CreateQRCode(ctx context.Context, req models.QRCodeRequest) *client.Future[models.QRCodeResponse]
	DownloadQRCode(ctx context.Context, id int64) *client.Future[models.QRCodeResponse]
}

// Image is a rendered QR code
type Image struct {
	Filename string
	PNG      []byte
	// Stored is set when the server kept the code
	Stored *models.QRCode
}

// Service runs the QR code workflow
type Service struct {
	api    API
	logger *slog.Logger
}

// NewService creates a QR code service
func NewService(api API, logger *slog.Logger) *Service {
	return &Service{api: api, logger: logger}
}

// Generate renders a QR code for req.URL, storing it when req.StoreInDB is set
func (s *Service) Generate(ctx context.Context, req models.QRCodeRequest) (*Image, error) {
	req.URL = strings.TrimSpace(req.URL)
	if req.URL == "" {
		return nil, ErrURLRequired
	}
	if req.Size == "" {
		req.Size = DefaultSize
	}

	resp, err := s.api.CreateQRCode(ctx, req).Await(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}

	img, err := Decode(resp)
	if err != nil {
		return nil, err
	}
	if req.StoreInDB && resp.QRCode.ID != 0 {
		stored := resp.QRCode
		img.Stored = &stored
	}

	s.logger.Debug("QR code generated", "url", req.URL, "size", req.Size, "bytes", len(img.PNG))
	return img, nil
}

// Download renders a stored QR code
func (s *Service) Download(ctx context.Context, id int64) (*Image, error) {
	resp, err := s.api.DownloadQRCode(ctx, id).Await(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to download QR code %d: %w", id, err)
	}
	return Decode(resp)
}

// Decode extracts the PNG bytes of a response
func Decode(resp models.QRCodeResponse) (*Image, error) {
	if !resp.Success {
		msg := resp.Message
		if msg == "" {
			msg = "error generating QR code"
		}
		return nil, errors.New(msg)
	}

	png, err := base64.StdEncoding.DecodeString(resp.QRCodeBase64)
	if err != nil {
		return nil, fmt.Errorf("invalid QR code data: %w", err)
	}
	if len(png) == 0 {
		return nil, errors.New("empty QR code data")
	}

	name := filepath.Base(resp.Filename)
	if name == "." || name == "/" || name == "" {
		name = "qr_code.png"
	}

	return &Image{Filename: name, PNG: png}, nil
}

// Save writes png into dir and returns the file path
func Save(dir, filename string, png []byte) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	path := filepath.Join(dir, filepath.Base(filename))
	if err := os.WriteFile(path, png, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
