package imageio

import (
	"fmt"
	"image"
	"io"
	"log/slog"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

func newRasterDecoder(map[string]any) (DecodeFunc, error) {
	return decodeRaster, nil
}

func decodeRaster(r io.Reader) (image.Image, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	slog.Debug("decodeRaster: image decoded",
		"format", format,
		"width", img.Bounds().Dx(),
		"height", img.Bounds().Dy())
	return img, nil
}

func init() {
	for _, ext := range []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp"} {
		if err := DefaultRegistry.Register(ext, newRasterDecoder); err != nil {
			panic(fmt.Sprintf("failed to register %s decoder: %v", ext, err))
		}
	}
}
