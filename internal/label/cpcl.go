package label

import (
	"fmt"
	"strings"
)

// RenderCPCL renders a label for CPCL mobile printers (Zebra QL/RW family).
// Fixed template; coordinates are dots at the configured resolution.
func RenderCPCL(content LabelContent, size LabelSize, cfg PrinterConfig) string {
	heightDots := MMToDots(size.HeightMM, cfg.DPI)

	var b strings.Builder
	line := func(format string, args ...interface{}) {
		fmt.Fprintf(&b, format, args...)
		b.WriteByte('\n')
	}

	// ! offset horiz-dpi vert-dpi height qty
	line("! 0 %d %d %d 1", cfg.DPI, cfg.DPI, heightDots)

	line("TEXT 4 0 20 20 %s", strings.ToUpper(content.Header))

	y := 70
	for _, ln := range []string{content.ExpiryLine, content.PrintedLine, content.IngredientsLine, content.InitialsLine} {
		if ln == "" {
			continue
		}
		line("TEXT 0 0 20 %d %s", y, ln)
		y += 30
	}

	if content.Barcode != "" {
		line("BARCODE 128 1 1 50 20 %d %s", y, content.Barcode)
	}

	line("FORM")
	line("PRINT")
	return b.String()
}
