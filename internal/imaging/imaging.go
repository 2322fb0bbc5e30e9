// Package imaging rasterizes label content into 1-bit bitmaps for printers
// that only accept TSPL BITMAP raster jobs (no built-in fonts worth using).
package imaging

import (
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
)

// LoadImage loads a logo or pre-rendered label image from disk.
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	return img, err
}

// PackMonochrome converts an image into 1-bit data for the TSPL BITMAP
// command: MSB-first, one row per widthPx/8 bytes, dark pixels set.
// widthPx must be a multiple of 8.
func PackMonochrome(img image.Image, widthPx, heightPx int, threshold uint8, invert bool) []byte {
	fitted := fit(img, widthPx, heightPx)
	stride := widthPx / 8
	data := make([]byte, stride*heightPx)

	for y := 0; y < heightPx; y++ {
		for x := 0; x < widthPx; x++ {
			gray := uint8(255)
			if x < fitted.Bounds().Dx() && y < fitted.Bounds().Dy() {
				gray = luminance(fitted.At(fitted.Bounds().Min.X+x, fitted.Bounds().Min.Y+y))
			}

			var bit uint8
			if gray < threshold {
				bit = 1
			}
			if invert {
				bit = 1 - bit
			}

			data[y*stride+x/8] |= bit << (7 - uint(x%8))
		}
	}

	return data
}

// luminance converts a color to its 8-bit grayscale value.
func luminance(c color.Color) uint8 {
	r, g, b, _ := c.RGBA()
	return uint8((0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 256)
}

// fit scales the image to fit within maxW x maxH, preserving aspect ratio.
// Nearest-neighbor is good enough for thermal output.
func fit(img image.Image, maxW, maxH int) image.Image {
	bounds := img.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()
	if srcW == 0 || srcH == 0 {
		return img
	}

	scale := float64(maxW) / float64(srcW)
	if s := float64(maxH) / float64(srcH); s < scale {
		scale = s
	}

	newW := int(float64(srcW) * scale)
	newH := int(float64(srcH) * scale)
	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))

	for y := 0; y < newH; y++ {
		for x := 0; x < newW; x++ {
			srcX := int(float64(x) / scale)
			srcY := int(float64(y) / scale)
			if srcX >= srcW {
				srcX = srcW - 1
			}
			if srcY >= srcH {
				srcY = srcH - 1
			}
			dst.Set(x, y, img.At(bounds.Min.X+srcX, bounds.Min.Y+srcY))
		}
	}

	return dst
}

// Unpack renders packed 1-bit data back into a grayscale image. Used by the
// CLI's preview output and by tests to inspect packing.
func Unpack(data []byte, widthPx, heightPx int) image.Image {
	stride := widthPx / 8
	img := image.NewGray(image.Rect(0, 0, widthPx, heightPx))

	for y := 0; y < heightPx; y++ {
		for x := 0; x < widthPx; x++ {
			bit := (data[y*stride+x/8] >> (7 - uint(x%8))) & 1
			if bit == 1 {
				img.SetGray(x, y, color.Gray{0})
			} else {
				img.SetGray(x, y, color.Gray{255})
			}
		}
	}

	return img
}
