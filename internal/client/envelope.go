package client

import (
	"net/http"

	"github.com/foxzi/lure/internal/models"
)

// enveloped is a response body carrying its own success flag
type enveloped interface {
	models.Response | models.QRCodes | models.QRCodeResponse
}

func envelope(v any) (bool, string) {
	switch r := v.(type) {
	case models.Response:
		return r.Success, r.Message
	case models.QRCodes:
		return r.Success, r.Message
	case models.QRCodeResponse:
		return r.Success, r.Message
	}
	return true, ""
}

// successful turns a 200 response with success:false into an APIError
func successful[T enveloped](f *Future[T], ep Endpoint) *Future[T] {
	return Map(f, func(v T) (T, error) {
		if ok, msg := envelope(v); !ok {
			if msg == "" {
				msg = "request failed"
			}
			return v, &APIError{Endpoint: ep.Name, Status: http.StatusOK, Message: msg}
		}
		return v, nil
	})
}
