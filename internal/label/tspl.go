package label

import (
	"fmt"
	"strings"
)

// approxCharHalfDots is the per-character half-width used to approximate
// horizontal centering. TSPL has no glyph metrics, so centering is
// center - len(text)*approxCharHalfDots. Intentionally approximate.
const approxCharHalfDots = 4

// tsplBuilder builds TSPL command streams line by line.
type tsplBuilder struct {
	buf strings.Builder
}

func newTSPL() *tsplBuilder {
	return &tsplBuilder{}
}

func (b *tsplBuilder) line(format string, args ...interface{}) *tsplBuilder {
	fmt.Fprintf(&b.buf, format, args...)
	b.buf.WriteByte('\n')
	return b
}

// Size sets label dimensions in mm.
func (b *tsplBuilder) Size(width, height float64) *tsplBuilder {
	return b.line("SIZE %.0f mm,%.0f mm", width, height)
}

// Gap sets the gap between labels in mm.
func (b *tsplBuilder) Gap(gap, offset float64) *tsplBuilder {
	return b.line("GAP %.0f mm,%.0f mm", gap, offset)
}

// Direction sets print direction (0 or 1).
func (b *tsplBuilder) Direction(dir int) *tsplBuilder {
	return b.line("DIRECTION %d", dir)
}

// Density sets print darkness (0-15, clamped).
func (b *tsplBuilder) Density(level int) *tsplBuilder {
	if level < 0 {
		level = 0
	}
	if level > 15 {
		level = 15
	}
	return b.line("DENSITY %d", level)
}

// CLS clears the printer image buffer.
func (b *tsplBuilder) CLS() *tsplBuilder {
	return b.line("CLS")
}

// Text places a text element at x,y in dots using the built-in font.
func (b *tsplBuilder) Text(x, y int, font string, rotation, xMul, yMul int, text string) *tsplBuilder {
	return b.line(`TEXT %d,%d,"%s",%d,%d,%d,"%s"`, x, y, font, rotation, xMul, yMul, text)
}

// Bar draws a filled rectangle at x,y with the given dot dimensions.
func (b *tsplBuilder) Bar(x, y, width, height int) *tsplBuilder {
	return b.line("BAR %d,%d,%d,%d", x, y, width, height)
}

// Barcode places a Code128 barcode.
func (b *tsplBuilder) Barcode(x, y, height int, data string) *tsplBuilder {
	return b.line(`BARCODE %d,%d,"128",%d,1,0,2,2,"%s"`, x, y, height, data)
}

// QRCode places a QR code element.
func (b *tsplBuilder) QRCode(x, y int, cellWidth int, data string) *tsplBuilder {
	return b.line(`QRCODE %d,%d,L,%d,A,0,"%s"`, x, y, cellWidth, data)
}

// Bitmap places raw 1-bit image data. widthBytes is pixels/8.
func (b *tsplBuilder) Bitmap(x, y, widthBytes, height int, data []byte) *tsplBuilder {
	fmt.Fprintf(&b.buf, "BITMAP %d,%d,%d,%d,1,", x, y, widthBytes, height)
	b.buf.Write(data)
	b.buf.WriteByte('\n')
	return b
}

// Print prints n copies.
func (b *tsplBuilder) Print(copies int) *tsplBuilder {
	return b.line("PRINT %d", copies)
}

func (b *tsplBuilder) String() string {
	return b.buf.String()
}

// setup emits the SIZE/GAP/DIRECTION/DENSITY/CLS preamble shared by every
// TSPL label.
func (b *tsplBuilder) setup(size LabelSize, cfg PrinterConfig) *tsplBuilder {
	return b.Size(size.WidthMM, size.HeightMM).
		Gap(cfg.GapMM, 0).
		Direction(cfg.Direction).
		Density(cfg.Density).
		CLS()
}

// centerX approximates the x coordinate that centers text on the label.
func centerX(size LabelSize, cfg PrinterConfig, text string) int {
	x := MMToDots(size.WidthMM, cfg.DPI)/2 - len(text)*approxCharHalfDots
	if x < 0 {
		x = 0
	}
	return x
}

// RenderTSPL renders a simple label: centered header near the top, optional
// detail lines stacked below, optional barcode/QR at the bottom.
func RenderTSPL(content LabelContent, size LabelSize, cfg PrinterConfig) string {
	b := newTSPL().setup(size, cfg)

	header := strings.ToUpper(content.Header)
	b.Text(centerX(size, cfg, header), 10, "3", 0, 1, 1, header)

	y := 50
	for _, ln := range []string{content.ExpiryLine, content.PrintedLine, content.IngredientsLine, content.InitialsLine} {
		if ln == "" {
			continue
		}
		b.Text(10, y, "2", 0, 1, 1, ln)
		y += 25
	}

	if content.Barcode != "" {
		b.Barcode(10, y, 50, content.Barcode)
		y += 60
	}
	if content.QRData != "" {
		b.QRCode(MMToDots(size.WidthMM, cfg.DPI)-80, y, 4, content.QRData)
	}

	return b.Print(1).String()
}

// Fixed vertical slots, in dots below the header bar, for the complex
// label's detail lines.
var complexLineOffsets = [4]int{50, 70, 90, 110}

// RenderTSPLComplex renders the kitchen prep label: a filled header bar with
// the item name inside, then expiry/printed/ingredients/initials lines at
// fixed offsets below the bar.
//
// When PrintedLine is present the initials are assumed to be embedded in it,
// so InitialsLine is not emitted separately. Intentional de-duplication, do
// not remove.
func RenderTSPLComplex(content LabelContent, size LabelSize, cfg PrinterConfig) string {
	b := newTSPL().setup(size, cfg)

	widthDots := MMToDots(size.WidthMM, cfg.DPI)
	barHeight := 36
	header := strings.ToUpper(content.Header)

	b.Bar(0, 0, widthDots, barHeight)
	b.Text(centerX(size, cfg, header), 8, "3", 0, 1, 1, header)

	lines := make([]string, 0, 4)
	if content.ExpiryLine != "" {
		lines = append(lines, content.ExpiryLine)
	}
	if content.PrintedLine != "" {
		lines = append(lines, content.PrintedLine)
	}
	if content.IngredientsLine != "" {
		lines = append(lines, content.IngredientsLine)
	}
	if content.InitialsLine != "" && content.PrintedLine == "" {
		lines = append(lines, content.InitialsLine)
	}

	for i, ln := range lines {
		if i >= len(complexLineOffsets) {
			break
		}
		b.Text(10, complexLineOffsets[i], "2", 0, 1, 1, ln)
	}

	return b.Print(1).String()
}

// RenderTSPLBitmap renders a label from pre-packed 1-bit image data, for
// printers that only accept raster jobs. widthBytes is the row stride in
// bytes, height the image height in dots.
func RenderTSPLBitmap(size LabelSize, cfg PrinterConfig, widthBytes, height int, data []byte) string {
	return newTSPL().setup(size, cfg).
		Bitmap(0, 0, widthBytes, height, data).
		Print(1).
		String()
}
