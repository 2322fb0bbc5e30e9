package label

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTSPLSetup(t *testing.T) {
	out := RenderTSPL(LabelContent{Header: "soup"}, Size56x31, DefaultConfig())

	assert.True(t, strings.HasPrefix(out, "SIZE 56 mm,31 mm\n"))
	assert.Contains(t, out, "GAP 3 mm,0 mm\n")
	assert.Contains(t, out, "DIRECTION 0\n")
	assert.Contains(t, out, "DENSITY 8\n")
	assert.Contains(t, out, "CLS\n")
	assert.True(t, strings.HasSuffix(out, "PRINT 1\n"))
}

func TestRenderTSPLUppercasesHeader(t *testing.T) {
	out := RenderTSPL(LabelContent{Header: "chicken salad"}, Size56x31, DefaultConfig())
	assert.Contains(t, out, `"CHICKEN SALAD"`)
	assert.NotContains(t, out, "chicken salad")
}

func TestRenderTSPLBarcodeAndQR(t *testing.T) {
	out := RenderTSPL(LabelContent{
		Header:  "Item",
		Barcode: "123456",
		QRData:  "https://example.com/i/1",
	}, Size56x31, DefaultConfig())

	assert.Contains(t, out, `BARCODE`)
	assert.Contains(t, out, `"123456"`)
	assert.Contains(t, out, `QRCODE`)
	assert.Contains(t, out, `"https://example.com/i/1"`)
}

func TestRenderTSPLComplexInitialsSuppression(t *testing.T) {
	size := Size56x31
	cfg := DefaultConfig()

	t.Run("initials suppressed when printed line present", func(t *testing.T) {
		out := RenderTSPLComplex(LabelContent{
			Header:       "X",
			PrintedLine:  "Printed: 01/02 JD",
			InitialsLine: "JD",
		}, size, cfg)

		assert.Contains(t, out, "Printed: 01/02 JD")
		// The initials text must not be emitted as its own TEXT element.
		assert.NotContains(t, out, `"JD"`)
	})

	t.Run("initials emitted when no printed line", func(t *testing.T) {
		out := RenderTSPLComplex(LabelContent{
			Header:       "X",
			InitialsLine: "JD",
		}, size, cfg)

		assert.Contains(t, out, `"JD"`)
	})
}

func TestRenderTSPLComplexHeaderBar(t *testing.T) {
	out := RenderTSPLComplex(LabelContent{Header: "pasta"}, Size56x31, DefaultConfig())

	barLine := ""
	for _, ln := range strings.Split(out, "\n") {
		if strings.HasPrefix(ln, "BAR ") {
			barLine = ln
			break
		}
	}
	require.NotEmpty(t, barLine, "complex label must draw a header bar")
	assert.Equal(t, "BAR 0,0,448,36", barLine) // 56mm at 203dpi = 448 dots
	assert.Contains(t, out, `"PASTA"`)
}

func TestRenderTSPLComplexLineOffsets(t *testing.T) {
	out := RenderTSPLComplex(LabelContent{
		Header:          "X",
		ExpiryLine:      "Expires: 03/02",
		PrintedLine:     "Printed: 01/02",
		IngredientsLine: "Ing: milk, flour",
	}, Size56x31, DefaultConfig())

	assert.Contains(t, out, `TEXT 10,50,"2",0,1,1,"Expires: 03/02"`)
	assert.Contains(t, out, `TEXT 10,70,"2",0,1,1,"Printed: 01/02"`)
	assert.Contains(t, out, `TEXT 10,90,"2",0,1,1,"Ing: milk, flour"`)
}

func TestRenderTSPLIdempotent(t *testing.T) {
	content := LabelContent{
		Header:          "Beef Stew",
		ExpiryLine:      "Best Before: 05/02/2026",
		PrintedLine:     "Printed: 01/02/2026 AB",
		IngredientsLine: "beef, carrots, onion",
		InitialsLine:    "AB",
	}
	size := Size60x40
	cfg := DefaultConfig()

	first := RenderTSPLComplex(content, size, cfg)
	second := RenderTSPLComplex(content, size, cfg)
	assert.Equal(t, first, second)

	assert.Equal(t, RenderTSPL(content, size, cfg), RenderTSPL(content, size, cfg))
	assert.Equal(t, RenderCPCL(content, size, cfg), RenderCPCL(content, size, cfg))
	assert.Equal(t, RenderEPL(content, size, cfg), RenderEPL(content, size, cfg))
}

func TestRenderTSPLBitmap(t *testing.T) {
	data := []byte{0xFF, 0x00, 0xFF, 0x00}
	out := RenderTSPLBitmap(Size40x30, DefaultConfig(), 2, 2, data)

	assert.Contains(t, out, "BITMAP 0,0,2,2,1,")
	assert.Contains(t, out, string(data))
	assert.True(t, strings.HasSuffix(out, "PRINT 1\n"))
}
