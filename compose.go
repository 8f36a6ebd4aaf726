package favico

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	svg "github.com/ajstarks/svgo"
	"github.com/esimov/favico/utils"
)

// ComposeSVG renders the style glyph with the provided font and places it
// over a circle filling the whole canvas. It returns the SVG document.
func ComposeSVG(font *Font, s Style) ([]byte, error) {
	bg, err := svgColor(s.Background)
	if err != nil {
		return nil, fmt.Errorf("background: %w", err)
	}
	fg, err := svgColor(s.Foreground)
	if err != nil {
		return nil, fmt.Errorf("foreground: %w", err)
	}

	outline, err := font.GlyphPath(s.Glyph, s.FontSize, s.CanvasSize)
	if err != nil {
		return nil, err
	}

	var (
		buf  bytes.Buffer
		size = s.CanvasSize
		r    = size / 2
	)
	canvas := svg.New(&buf)
	canvas.Startview(size, size, 0, 0, size, size)
	canvas.Circle(r, r, r, bg)
	canvas.Path(outline.D, fg)
	canvas.End()

	return buf.Bytes(), nil
}

// svgColor converts a color value into an SVG fill style.
func svgColor(value string) (string, error) {
	c, err := utils.HexToRGBA(value)
	if err != nil {
		return "", err
	}
	style := fmt.Sprintf("fill:#%02x%02x%02x", c.R, c.G, c.B)
	if c.A != 0xff {
		style += fmt.Sprintf(";fill-opacity:%s", formatCoord(float64(c.A)/255))
	}
	return style, nil
}

// isSVG reports whether data looks like an SVG document.
func isSVG(data []byte) bool {
	ctype := http.DetectContentType(data)
	if !strings.HasPrefix(ctype, "text/") {
		return false
	}
	return bytes.Contains(data, []byte("<svg"))
}
