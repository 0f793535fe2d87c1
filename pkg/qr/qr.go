// Package qr renders booking confirmation codes as QR images
package qr

import (
	"bytes"
	"encoding/base64"
	"fmt"

	"github.com/yeqown/go-qrcode"
)

// DataURL encodes content as a QR code and returns it as a base64 JPEG
// data URL ready to embed in an email or API response.
func DataURL(content string) (string, error) {
	qrc, err := qrcode.New(content)
	if err != nil {
		return "", fmt.Errorf("failed to generate qr code: %w", err)
	}

	var buf bytes.Buffer
	if err := qrc.SaveTo(&buf); err != nil {
		return "", fmt.Errorf("failed to encode qr code: %w", err)
	}

	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
