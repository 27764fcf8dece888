package imageio

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// Only the head of the document is scanned for the <svg> start tag.
const svgHeaderScanLimit = 8192

var whitespace = strings.NewReplacer("\n", " ", "\r", " ", "\t", " ")

type svgDecoder struct {
	fallbackWidth  int
	fallbackHeight int
}

// newSVGDecoder reads optional fallback dimensions used when the SVG has no
// explicit width/height attributes.
func newSVGDecoder(params map[string]any) (DecodeFunc, error) {
	d := &svgDecoder{
		fallbackWidth:  GetIntParam(params, "svgFallbackWidth", 0),
		fallbackHeight: GetIntParam(params, "svgFallbackHeight", 0),
	}
	if d.fallbackWidth < 0 || d.fallbackHeight < 0 {
		return nil, fmt.Errorf("svg fallback size must not be negative, got %dx%d", d.fallbackWidth, d.fallbackHeight)
	}
	return d.decode, nil
}

func (d *svgDecoder) decode(r io.Reader) (image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read SVG: %w", err)
	}

	w, h, ok := svgExplicitSize(data)
	if !ok {
		if d.fallbackWidth <= 0 || d.fallbackHeight <= 0 {
			slog.Error("svgDecoder: SVG lacks explicit size and no fallback size is configured")
			return nil, fmt.Errorf("SVG fallback size not set; cannot render SVG without explicit size")
		}
		w, h = d.fallbackWidth, d.fallbackHeight
		slog.Debug("svgDecoder: SVG lacks explicit size; using fallback", "width", w, "height", h)
	}
	return renderSVG(data, w, h)
}

// renderSVG rasterizes svgData onto a white w x h canvas.
func renderSVG(svgData []byte, w, h int) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(svgData))
	if err != nil {
		return nil, fmt.Errorf("failed to parse SVG: %w", err)
	}
	icon.SetTarget(0, 0, float64(w), float64(h))

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(w, h, dst, dst.Bounds())
	dasher := rasterx.NewDasher(w, h, scanner)
	icon.Draw(dasher, 1.0)

	slog.Debug("svgDecoder: SVG rendered", "width", w, "height", h)
	return dst, nil
}

// svgExplicitSize extracts the pixel width and height attributes of the root
// <svg> element. viewBox is deliberately not treated as a pixel size.
func svgExplicitSize(data []byte) (int, int, bool) {
	head := data
	if len(head) > svgHeaderScanLimit {
		head = head[:svgHeaderScanLimit]
	}
	s := whitespace.Replace(strings.ToLower(string(head)))

	start := strings.Index(s, "<svg")
	if start < 0 {
		return 0, 0, false
	}
	tag := s[start:]
	if end := strings.IndexByte(tag, '>'); end >= 0 {
		tag = tag[:end]
	}

	w, wOk := numericAttr(tag, "width")
	h, hOk := numericAttr(tag, "height")
	if !wOk || !hOk {
		return 0, 0, false
	}
	return w, h, true
}

// numericAttr returns the leading integer of a quoted attribute value,
// e.g. 123 for width="123px".
func numericAttr(tag, attr string) (int, bool) {
	for _, quote := range []string{`"`, `'`} {
		key := " " + attr + "=" + quote
		pos := strings.Index(tag, key)
		if pos < 0 {
			continue
		}
		val := tag[pos+len(key):]
		if end := strings.Index(val, quote); end >= 0 {
			val = val[:end]
		}

		digits := 0
		for digits < len(val) && val[digits] >= '0' && val[digits] <= '9' {
			digits++
		}
		n, err := strconv.Atoi(val[:digits])
		if err != nil || n <= 0 {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

func init() {
	if err := DefaultRegistry.Register(".svg", newSVGDecoder); err != nil {
		panic(fmt.Sprintf("failed to register .svg decoder: %v", err))
	}
}
