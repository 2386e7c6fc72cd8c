package ui

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/massmux/ZapWall/internal/str"
)

var (
	slotColor  = color.New(color.FgWhite, color.Bold)
	totalColor = color.New(color.FgYellow, color.Bold)
	qrColor    = color.New(color.FgWhite)
)

// renderFrame lays out the wall: optional QR block, one slot per
// message (messages may span two lines), empty slots below, and the
// total line last. fiat is an already formatted value like
// "≈ 12.34 USD", empty when unknown or disabled.
func renderFrame(messages []string, capacity int, totalSats int64, fiat string, qr string) string {
	var b strings.Builder
	if qr != "" {
		b.WriteString(qrColor.Sprint(qr))
		b.WriteString("\r\n")
	}
	for i := 0; i < capacity; i++ {
		if i < len(messages) {
			for _, line := range strings.Split(messages[i], "\n") {
				b.WriteString(slotColor.Sprint(line))
				b.WriteString("\r\n")
			}
		} else {
			b.WriteString("\r\n")
		}
		b.WriteString("\r\n")
	}
	total := fmt.Sprintf("Total sats collected: %s", str.FormatThousands(totalSats))
	if fiat != "" {
		total += " (" + fiat + ")"
	}
	b.WriteString(totalColor.Sprint(total))
	b.WriteString("\r\n")
	return b.String()
}
