package label

import (
	"fmt"
	"strings"
)

// ESC/POS control sequences. These are written to the wire verbatim, so the
// escape bytes must stay exact.
const (
	escInit       = "\x1B\x40"
	escAlignLeft  = "\x1B\x61\x00"
	escAlignMid   = "\x1B\x61\x01"
	escAlignRight = "\x1B\x61\x02"
	escSizeNormal = "\x1B\x21\x00"
	escSizeDouble = "\x1B\x21\x10"
	escCut        = "\x1B\x69"
)

// receiptNameWidth is the fixed column width for item names.
const receiptNameWidth = 20

// RenderESCPOS renders a receipt as an ESC/POS byte stream. Unlike the
// label languages, ESC/POS commands are concatenated raw with no line
// separator between control sequences; text lines end with \n which feeds
// the paper.
func RenderESCPOS(r Receipt, cfg PrinterConfig) string {
	var b strings.Builder

	b.WriteString(escInit)
	b.WriteString(escAlignMid)
	b.WriteString(escSizeDouble)
	if r.StoreName != "" {
		b.WriteString(r.StoreName + "\n")
	}
	b.WriteString(escSizeNormal)
	if r.Address != "" {
		b.WriteString(r.Address + "\n")
	}
	b.WriteString("\n")

	b.WriteString(escAlignLeft)
	for _, item := range r.Items {
		fmt.Fprintf(&b, "%-*s $%.2f x%d $%.2f\n",
			receiptNameWidth, item.Name, item.Price, item.Quantity,
			item.Price*float64(item.Quantity))
	}
	b.WriteString("\n")

	b.WriteString(escAlignRight)
	b.WriteString(escSizeDouble)
	fmt.Fprintf(&b, "TOTAL $%.2f\n", r.Total)
	b.WriteString(escSizeNormal)

	b.WriteString("\n\n\n")
	b.WriteString(escCut)

	return b.String()
}
