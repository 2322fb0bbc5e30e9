package label

import (
	"fmt"
	"strings"
)

// RenderZPL renders an asset-style label: title, part number, Code128
// serial barcode, QR, location and date fields.
func RenderZPL(d ZPLData, size LabelSize, cfg PrinterConfig) string {
	widthDots := MMToDots(size.WidthMM, cfg.DPI)

	var b strings.Builder
	line := func(format string, args ...interface{}) {
		fmt.Fprintf(&b, format, args...)
		b.WriteByte('\n')
	}

	line("^XA")
	line("^PW%d", widthDots)

	y := 20
	if d.Title != "" {
		line("^FO20,%d^A0N,36,36^FD%s^FS", y, strings.ToUpper(d.Title))
		y += 45
	}
	if d.PartNumber != "" {
		line("^FO20,%d^A0N,24,24^FDP/N: %s^FS", y, d.PartNumber)
		y += 30
	}
	if d.SerialNumber != "" {
		line("^FO20,%d^BCN,60,Y,N,N^FD%s^FS", y, d.SerialNumber)
		y += 90
	}
	if d.QRData != "" {
		line("^FO%d,20^BQN,2,4^FDQA,%s^FS", widthDots-120, d.QRData)
	}
	if d.Location != "" {
		line("^FO20,%d^A0N,24,24^FDLOC: %s^FS", y, d.Location)
		y += 30
	}
	if d.Date != "" {
		line("^FO20,%d^A0N,24,24^FD%s^FS", y, d.Date)
	}

	line("^XZ")
	return b.String()
}
