package utils

import (
	"errors"

	"github.com/skip2/go-qrcode"
)

var ErrEmptyQRContent = errors.New("qr content is empty")

// GenerateQRCode returns a size x size PNG. Medium recovery keeps long
// payment links scannable from a phone screen.
func GenerateQRCode(content string, size int) ([]byte, error) {
	if content == "" {
		return nil, ErrEmptyQRContent
	}
	return qrcode.Encode(content, qrcode.Medium, size)
}
