package ui

import (
	"fmt"
	"strings"

	lnurl "github.com/fiatjaf/go-lnurl"
	qrcode "github.com/skip2/go-qrcode"
)

// PayQR renders the LNURL-pay QR for a lightning address
// (user@host). The encoded link points at the address's lnurlp
// callback.
func PayQR(lightningAddress string) (string, error) {
	parts := strings.Split(lightningAddress, "@")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", fmt.Errorf("invalid lightning address %q", lightningAddress)
	}
	callback := fmt.Sprintf("https://%s/.well-known/lnurlp/%s", parts[1], parts[0])
	lnurlEncode, err := lnurl.LNURLEncode(callback)
	if err != nil {
		return "", err
	}
	qr, err := qrcode.New(lnurlEncode, qrcode.Low)
	if err != nil {
		return "", err
	}
	return qr.ToSmallString(false), nil
}
