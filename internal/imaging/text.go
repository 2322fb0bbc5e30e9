package imaging

import (
	"image"
	"image/color"
	"image/draw"
	"strings"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

// TextOptions configures the rasterized label layout.
type TextOptions struct {
	DPI          int
	HeaderSize   float64 // point size of the header line
	BodySize     float64 // point size of detail lines
	Invert       bool
	WordWrapOnly bool // break detail lines on spaces only
}

// DefaultTextOptions matches a 203dpi prep label.
func DefaultTextOptions() TextOptions {
	return TextOptions{DPI: 203, HeaderSize: 14, BodySize: 9}
}

// RenderLines rasterizes a header plus detail lines onto a white label
// canvas of the given pixel dimensions. The header is drawn centered and
// larger; detail lines are left-aligned and word-wrapped to the label
// width. The result feeds PackMonochrome for the TSPL BITMAP path.
func RenderLines(header string, lines []string, widthPx, heightPx int, opts TextOptions) (image.Image, error) {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}

	bg, fg := color.Color(color.White), color.Color(color.Black)
	if opts.Invert {
		bg, fg = fg, bg
	}

	img := image.NewRGBA(image.Rect(0, 0, widthPx, heightPx))
	draw.Draw(img, img.Bounds(), &image.Uniform{bg}, image.Point{}, draw.Src)

	ctx := freetype.NewContext()
	ctx.SetDPI(float64(opts.DPI))
	ctx.SetFont(f)
	ctx.SetClip(img.Bounds())
	ctx.SetDst(img)
	ctx.SetSrc(&image.Uniform{fg})
	ctx.SetHinting(font.HintingFull)

	headerFace := truetype.NewFace(f, &truetype.Options{Size: opts.HeaderSize, DPI: float64(opts.DPI)})
	bodyFace := truetype.NewFace(f, &truetype.Options{Size: opts.BodySize, DPI: float64(opts.DPI)})

	y := headerFace.Metrics().Ascent.Ceil() + 2
	if header != "" {
		header = strings.ToUpper(header)
		ctx.SetFontSize(opts.HeaderSize)
		x := (widthPx - textWidth(headerFace, header)) / 2
		if x < 0 {
			x = 0
		}
		ctx.DrawString(header, freetype.Pt(x, y))
		y += headerFace.Metrics().Height.Ceil()
	}

	ctx.SetFontSize(opts.BodySize)
	lineHeight := bodyFace.Metrics().Height.Ceil()
	for _, line := range lines {
		if line == "" {
			continue
		}
		for _, wrapped := range wrap(line, bodyFace, widthPx-8, opts.WordWrapOnly) {
			if y > heightPx {
				break
			}
			ctx.DrawString(wrapped, freetype.Pt(4, y))
			y += lineHeight
		}
	}

	return img, nil
}

// wrap splits text into lines no wider than maxWidth. With wordOnly set,
// breaks happen at spaces unless a single word exceeds the width.
func wrap(text string, face font.Face, maxWidth int, wordOnly bool) []string {
	if !wordOnly {
		return wrapAnywhere(text, face, maxWidth)
	}

	var out []string
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	current := words[0]
	for _, word := range words[1:] {
		candidate := current + " " + word
		if textWidth(face, candidate) > maxWidth {
			out = append(out, current)
			if textWidth(face, word) > maxWidth {
				broken := wrapAnywhere(word, face, maxWidth)
				out = append(out, broken[:len(broken)-1]...)
				current = broken[len(broken)-1]
			} else {
				current = word
			}
		} else {
			current = candidate
		}
	}
	return append(out, current)
}

func wrapAnywhere(text string, face font.Face, maxWidth int) []string {
	var out []string
	var current string
	for _, r := range text {
		candidate := current + string(r)
		if textWidth(face, candidate) > maxWidth && current != "" {
			out = append(out, current)
			current = string(r)
		} else {
			current = candidate
		}
	}
	if current != "" {
		out = append(out, current)
	}
	return out
}

// textWidth measures the advance width of s in pixels.
func textWidth(face font.Face, s string) int {
	var w fixed.Int26_6
	for _, r := range s {
		if adv, ok := face.GlyphAdvance(r); ok {
			w += adv
		}
	}
	return w.Ceil()
}
