package quadrant

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"math"

	"golang.org/x/image/draw"
)

// MaxMargin is the largest margin fraction accepted by Split. Anything larger
// could push a crop box past the quadrant midline and invert it.
const MaxMargin = 0.25

// ErrInvalidMargin is returned when the margin is outside [0, MaxMargin].
var ErrInvalidMargin = errors.New("margin must be between 0 and 0.25")

// Quadrant is one cropped cell of a 2x2 composite.
type Quadrant struct {
	Image image.Image
	// Index is 0 for top-left, 1 top-right, 2 bottom-left, 3 bottom-right.
	Index int
}

// ValidateMargin checks that margin is a fraction in [0, MaxMargin].
func ValidateMargin(margin float64) error {
	if math.IsNaN(margin) || margin < 0 || margin > MaxMargin {
		return fmt.Errorf("%w, got %v", ErrInvalidMargin, margin)
	}
	return nil
}

// Rects computes the four crop rectangles for an image with the given bounds,
// in row-major order.
func Rects(bounds image.Rectangle, margin float64) ([4]image.Rectangle, error) {
	var rects [4]image.Rectangle
	if err := ValidateMargin(margin); err != nil {
		return rects, err
	}

	w, h := bounds.Dx(), bounds.Dy()
	halfW, halfH := w/2, h/2
	marginX := int(float64(halfW) * margin)
	marginY := int(float64(halfH) * margin)

	for row := 0; row < 2; row++ {
		for col := 0; col < 2; col++ {
			left := col * halfW
			upper := row * halfH
			right := left + halfW
			lower := upper + halfH

			cropLeft := max(left+marginX, 0)
			cropUpper := max(upper+marginY, 0)
			cropRight := min(right-marginX, w)
			cropLower := min(lower-marginY, h)

			rects[row*2+col] = image.Rect(cropLeft, cropUpper, cropRight, cropLower).
				Add(bounds.Min)
		}
	}
	return rects, nil
}

// Split crops a 2x2 composite into its four quadrants, trimming margin*half
// pixels from every edge of each cell.
func Split(img image.Image, margin float64) ([]Quadrant, error) {
	rects, err := Rects(img.Bounds(), margin)
	if err != nil {
		return nil, err
	}

	slog.Debug("Split: computed quadrant rectangles",
		"width", img.Bounds().Dx(),
		"height", img.Bounds().Dy(),
		"margin", margin,
		"quadrant_size", rects[0].Size())

	quads := make([]Quadrant, 0, len(rects))
	for i, r := range rects {
		quads = append(quads, Quadrant{Image: crop(img, r), Index: i})
	}
	return quads, nil
}

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

// crop returns a view of r when the image supports it and a copy otherwise.
func crop(img image.Image, r image.Rectangle) image.Image {
	if s, ok := img.(subImager); ok {
		return s.SubImage(r)
	}
	dst := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Copy(dst, image.Point{}, img, r, draw.Src, nil)
	return dst
}
