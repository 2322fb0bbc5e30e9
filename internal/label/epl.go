package label

import (
	"fmt"
	"strings"
)

// RenderEPL renders a label in EPL2 for legacy Eltron/Zebra desktop
// printers. Fixed template; lower fidelity than the TSPL path.
func RenderEPL(content LabelContent, size LabelSize, cfg PrinterConfig) string {
	var b strings.Builder
	line := func(format string, args ...interface{}) {
		fmt.Fprintf(&b, format, args...)
		b.WriteByte('\n')
	}

	widthDots := MMToDots(size.WidthMM, cfg.DPI)
	heightDots := MMToDots(size.HeightMM, cfg.DPI)

	line("N")
	line("q%d", widthDots)
	line("Q%d,%d", heightDots, MMToDots(cfg.GapMM, cfg.DPI))

	line(`A20,10,0,3,1,1,N,"%s"`, strings.ToUpper(content.Header))

	y := 50
	for _, ln := range []string{content.ExpiryLine, content.PrintedLine, content.IngredientsLine, content.InitialsLine} {
		if ln == "" {
			continue
		}
		line(`A20,%d,0,2,1,1,N,"%s"`, y, ln)
		y += 25
	}

	if content.Barcode != "" {
		line(`B20,%d,0,1,2,2,50,N,"%s"`, y, content.Barcode)
	}

	line("P1")
	return b.String()
}
