package imageio

import (
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"log/slog"
	"os"
)

// DefaultJPEGQuality matches the quality most imaging tools default to.
const DefaultJPEGQuality = 75

// DecodeFile opens path, decodes it and closes the file before returning.
func DecodeFile(path string, decode DecodeFunc) (img image.Image, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image %s: %w", path, err)
	}
	defer func() {
		if cErr := f.Close(); cErr != nil && err == nil {
			err = fmt.Errorf("failed to close image %s: %w", path, cErr)
		}
	}()

	img, err = decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return img, nil
}

// EncodeJPEG flattens img to RGB and writes it as a JPEG.
func EncodeJPEG(w io.Writer, img image.Image, quality int) error {
	if err := jpeg.Encode(w, ToRGB(img), &jpeg.Options{Quality: quality}); err != nil {
		return fmt.Errorf("failed to encode JPEG: %w", err)
	}
	return nil
}

// WriteJPEG creates (or truncates) path and stores img in it as a JPEG.
func WriteJPEG(path string, img image.Image, quality int) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cErr := f.Close(); cErr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cErr)
		}
	}()

	if err := EncodeJPEG(f, img, quality); err != nil {
		slog.Error("WriteJPEG: failed to encode image", "path", path, "error", err)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
