// Package label renders structured label content into vendor printer
// command strings (TSPL, ESC/POS, ZPL, CPCL, EPL). All renderers are pure
// functions: same input, same output, no I/O. Inputs are not validated -
// malformed content yields malformed but syntactically well-formed commands,
// and the printer firmware is the final arbiter.
package label

import "math"

// Protocol identifies a printer command language.
type Protocol string

const (
	ProtocolTSPL   Protocol = "TSPL"
	ProtocolESCPOS Protocol = "ESC/POS"
	ProtocolZPL    Protocol = "ZPL"
	ProtocolCPCL   Protocol = "CPCL"
	ProtocolEPL    Protocol = "EPL"
)

// LabelContent is the semantic payload for one physical label. All line
// fields arrive pre-formatted by the caller; this package never computes
// dates or allergen strings.
type LabelContent struct {
	Header          string // item name, uppercased at render time
	ExpiryLine      string
	PrintedLine     string
	IngredientsLine string
	InitialsLine    string
	Barcode         string // Code128 payload, optional
	QRData          string // QR payload, optional
}

// LabelSize is a physical label dimension in millimeters.
type LabelSize struct {
	Name     string
	WidthMM  float64
	HeightMM float64
}

// Common InstaLabel roll sizes.
var (
	Size40x30 = LabelSize{"40x30mm", 40.0, 30.0}
	Size50x30 = LabelSize{"50x30mm", 50.0, 30.0}
	Size56x31 = LabelSize{"56x31mm", 56.0, 31.0}
	Size60x40 = LabelSize{"60x40mm", 60.0, 40.0}
)

var AllSizes = []LabelSize{Size40x30, Size50x30, Size56x31, Size60x40}

// PrinterConfig carries the per-printer rendering parameters.
type PrinterConfig struct {
	DPI       int
	GapMM     float64
	Direction int
	Density   int // 0-15
}

// DefaultConfig matches the most common 203dpi thermal label printer.
func DefaultConfig() PrinterConfig {
	return PrinterConfig{DPI: 203, GapMM: 3.0, Direction: 0, Density: 8}
}

// ReceiptItem is one itemized line on an ESC/POS receipt.
type ReceiptItem struct {
	Name     string
	Price    float64
	Quantity int
}

// Receipt is the payload for the ESC/POS renderer.
type Receipt struct {
	StoreName string
	Address   string
	Items     []ReceiptItem
	Total     float64
}

// ZPLData is the payload for the ZPL renderer (asset/part style labels).
type ZPLData struct {
	Title        string
	PartNumber   string
	SerialNumber string
	QRData       string
	Location     string
	Date         string
}

// LabelData is the superset payload used by shape-based protocol selection
// for callers that do not know the target printer.
type LabelData struct {
	Content LabelContent
	Receipt Receipt
	ZPL     ZPLData
}

// MMToDots converts millimeters to printer dots at the given resolution.
// Exact integer rounding, not truncation.
func MMToDots(mm float64, dpi int) int {
	return int(math.Round(mm * float64(dpi) / 25.4))
}
