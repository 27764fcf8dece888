package imageio

import (
	"image"
	"image/color"
)

// ToRGB returns img in a pixel format JPEG can store without loss of meaning.
// Alpha is discarded rather than composited, and palettes are expanded.
// Opaque RGBA and YCbCr images are returned unchanged.
func ToRGB(img image.Image) image.Image {
	switch src := img.(type) {
	case *image.YCbCr:
		return src
	case *image.RGBA:
		if src.Opaque() {
			return src
		}
	}

	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	nrgba, isNRGBA := img.(*image.NRGBA)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			var c color.NRGBA
			if isNRGBA {
				c = nrgba.NRGBAAt(x, y)
			} else {
				c = color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			}
			dst.SetRGBA(x-b.Min.X, y-b.Min.Y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff})
		}
	}
	return dst
}
