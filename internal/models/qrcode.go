package models

import "time"

// QRCode is a stored QR code definition
type QRCode struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	URL       string    `json:"url"`
	Size      string    `json:"size"`
	Filename  string    `json:"filename,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// QRCodeRequest asks the server to render a QR code
type QRCodeRequest struct {
	URL       string `json:"url"`
	Size      string `json:"size"`
	StoreInDB bool   `json:"storeInDb"`
}

// QRCodeResponse carries a rendered PNG as base64
type QRCodeResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	QRCodeBase64 string `json:"qr_code_base64,omitempty"`
	Filename     string `json:"filename,omitempty"`
	QRCode       QRCode `json:"qr_code,omitempty"`
}

// QRCodes is the response of the QR code list endpoint
type QRCodes struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	QRCodes []QRCode `json:"qr_codes"`
}
