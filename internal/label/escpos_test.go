package label

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderESCPOSControlBytes(t *testing.T) {
	out := RenderESCPOS(Receipt{StoreName: "InstaLabel Cafe", Total: 1}, DefaultConfig())

	assert.True(t, strings.HasPrefix(out, "\x1B\x40"), "must start with printer init")
	assert.Contains(t, out, "\x1B\x61\x01") // center align
	assert.Contains(t, out, "\x1B\x21\x10") // double size
	assert.True(t, strings.HasSuffix(out, "\x1B\x69"), "must end with cut")
}

func TestRenderESCPOSItemLine(t *testing.T) {
	out := RenderESCPOS(Receipt{
		StoreName: "Cafe",
		Items:     []ReceiptItem{{Name: "Cola", Price: 1.5, Quantity: 2}},
		Total:     3.0,
	}, DefaultConfig())

	// Name padded to 20 columns, unit price, quantity, line total.
	padded := "Cola" + strings.Repeat(" ", 16)
	assert.Contains(t, out, padded+" $1.50 x2 $3.00\n")
	assert.Contains(t, out, "TOTAL $3.00")
}

func TestRenderESCPOSMultipleItems(t *testing.T) {
	out := RenderESCPOS(Receipt{
		Items: []ReceiptItem{
			{Name: "Sandwich", Price: 4.25, Quantity: 1},
			{Name: "Very Long Item Name Overflow", Price: 0.5, Quantity: 3},
		},
		Total: 5.75,
	}, DefaultConfig())

	assert.Contains(t, out, "Sandwich"+strings.Repeat(" ", 12)+" $4.25 x1 $4.25\n")
	// Names longer than the column are not cut off.
	assert.Contains(t, out, "Very Long Item Name Overflow $0.50 x3 $1.50\n")
}

func TestRenderESCPOSNoLineSeparators(t *testing.T) {
	// Control sequences are concatenated raw: init is immediately followed
	// by the align command, with no newline between them.
	out := RenderESCPOS(Receipt{StoreName: "X"}, DefaultConfig())
	assert.Contains(t, out, "\x1B\x40\x1B\x61\x01")
}

func TestRenderESCPOSIdempotent(t *testing.T) {
	r := Receipt{
		StoreName: "Cafe",
		Address:   "1 High St",
		Items:     []ReceiptItem{{Name: "Tea", Price: 2, Quantity: 2}},
		Total:     4,
	}
	assert.Equal(t, RenderESCPOS(r, DefaultConfig()), RenderESCPOS(r, DefaultConfig()))
}
