// services/qrcode_service.go
package services

import (
	"github.com/skip2/go-qrcode"
)

// QRCodeEncoder matches qrcode.Encode so tests can swap in a failing encoder.
type QRCodeEncoder func(content string, level qrcode.RecoveryLevel, size int) ([]byte, error)

// GenerateQRCode renders the given URL as a PNG of the requested size,
// so the dashboard can be opened on a phone by scanning it.
func GenerateQRCode(url string, size int, encode QRCodeEncoder) ([]byte, error) {
	if encode == nil {
		encode = qrcode.Encode
	}
	return encode(url, qrcode.Medium, size)
}
