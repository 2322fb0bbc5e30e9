package label

import "strings"

// Keyword lists for name-based protocol classification. Matching is
// case-insensitive substring; first hit wins within a list, lists are
// checked most-specific first.
var (
	zplKeywords    = []string{"zebra", "zd4", "zt2", "gk420", "zpl"}
	cpclKeywords   = []string{"cpcl", "ql220", "ql320", "rw420", "zebra mobile"}
	eplKeywords    = []string{"epl", "eltron", "lp2844", "tlp"}
	escposKeywords = []string{"epson", "star", "bixolon", "thermal", "receipt", "pos", "tm-"}
	tsplKeywords   = []string{"label", "munbyn", "gprinter", "xprinter", "phomemo", "nelko", "rollo", "tspl"}
)

// DetectProtocol classifies a printer into a command protocol from its
// advertised name and optional manufacturer string. Defaults to TSPL, the
// most common language among the label printers this app targets.
func DetectProtocol(name, manufacturer string) Protocol {
	s := strings.ToLower(name + " " + manufacturer)

	matches := func(keywords []string) bool {
		for _, kw := range keywords {
			if strings.Contains(s, kw) {
				return true
			}
		}
		return false
	}

	switch {
	case matches(cpclKeywords):
		return ProtocolCPCL
	case matches(eplKeywords):
		return ProtocolEPL
	case matches(zplKeywords):
		return ProtocolZPL
	case matches(escposKeywords):
		return ProtocolESCPOS
	case matches(tsplKeywords):
		return ProtocolTSPL
	default:
		return ProtocolTSPL
	}
}

// DetectProtocolForData picks a protocol from the shape of the data, for
// callers that do not know the target printer: itemized totals mean a
// receipt printer, serial/part numbers mean an asset label, everything else
// is a TSPL prep label.
func DetectProtocolForData(d LabelData) Protocol {
	if len(d.Receipt.Items) > 0 && d.Receipt.Total != 0 {
		return ProtocolESCPOS
	}
	if d.ZPL.SerialNumber != "" || d.ZPL.PartNumber != "" {
		return ProtocolZPL
	}
	return ProtocolTSPL
}

// Render dispatches to the renderer for the given protocol.
func Render(d LabelData, size LabelSize, cfg PrinterConfig, proto Protocol) string {
	switch proto {
	case ProtocolESCPOS:
		return RenderESCPOS(d.Receipt, cfg)
	case ProtocolZPL:
		return RenderZPL(d.ZPL, size, cfg)
	case ProtocolCPCL:
		return RenderCPCL(d.Content, size, cfg)
	case ProtocolEPL:
		return RenderEPL(d.Content, size, cfg)
	default:
		return RenderTSPLComplex(d.Content, size, cfg)
	}
}
