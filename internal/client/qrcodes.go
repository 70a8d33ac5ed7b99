package client

import (
	"context"

	"github.com/foxzi/lure/internal/models"
)

// QRCodes lists stored QR codes
func (c *Client) QRCodes(ctx context.Context) *Future[models.QRCodes] {
	return successful(call[models.QRCodes](ctx, c, QRCodesList, nil, nil), QRCodesList)
}

// CreateQRCode renders a QR code and stores it when req.StoreInDB is set
func (c *Client) CreateQRCode(ctx context.Context, req models.QRCodeRequest) *Future[models.QRCodeResponse] {
	return successful(call[models.QRCodeResponse](ctx, c, QRCodesCreate, nil, req), QRCodesCreate)
}

// DownloadQRCode renders a stored QR code
func (c *Client) DownloadQRCode(ctx context.Context, id int64) *Future[models.QRCodeResponse] {
	return successful(call[models.QRCodeResponse](ctx, c, QRCodeDownload, id, nil), QRCodeDownload)
}

func (c *Client) DeleteQRCode(ctx context.Context, id int64) *Future[models.Response] {
	return successful(call[models.Response](ctx, c, QRCodeDelete, id, nil), QRCodeDelete)
}
