package favico

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// Font is a parsed TrueType or OpenType font used to render the favicon glyph.
type Font struct {
	Path string
	font *sfnt.Font
}

// GlyphOutline is the vector outline of a single glyph in SVG path syntax.
type GlyphOutline struct {
	// D holds the SVG path data, translated so that the outline is centered on the canvas.
	D string
	// Bounds of the outline before centering, with the Y axis pointing down
	// and the origin on the glyph baseline.
	MinX, MinY, MaxX, MaxY float64
}

// LoadFont reads and parses the font file found at path.
func LoadFont(path string) (*Font, error) {
	data, err := readInput(path)
	if err != nil {
		return nil, fmt.Errorf("font: %w", err)
	}
	return ParseFont(path, data)
}

// ParseFont parses the font data. The name is only used in error messages.
func ParseFont(name string, data []byte) (*Font, error) {
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("could not parse the font file %s: %v", name, err)
	}
	return &Font{Path: name, font: f}, nil
}

// GlyphPath renders the first rune of glyph at the given size (pixels per em)
// and returns its outline centered on a square canvas of canvasSize pixels.
func (f *Font) GlyphPath(glyph string, size float64, canvasSize int) (*GlyphOutline, error) {
	r, n := utf8.DecodeRuneInString(glyph)
	if n == 0 || r == utf8.RuneError {
		return nil, fmt.Errorf("%w: empty or invalid glyph %q", ErrRender, glyph)
	}

	var buf sfnt.Buffer
	idx, err := f.font.GlyphIndex(&buf, r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}
	if idx == 0 {
		return nil, fmt.Errorf("%w: %q is missing from %s", ErrRender, r, f.Path)
	}

	ppem := fixed.Int26_6(math.Round(size * 64))
	segments, err := f.font.LoadGlyph(&buf, idx, ppem, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}
	if len(segments) == 0 {
		return nil, fmt.Errorf("%w: %q has no outline in %s", ErrRender, r, f.Path)
	}

	outline := &GlyphOutline{
		MinX: math.Inf(1), MinY: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1),
	}
	for _, seg := range segments {
		for _, p := range seg.Args[:argCount(seg.Op)] {
			outline.updateBounds(p)
		}
	}

	// Center the bounding box of the outline on the canvas.
	c := float64(canvasSize) / 2
	dx := c - (outline.MinX+outline.MaxX)/2
	dy := c - (outline.MinY+outline.MaxY)/2

	var sb strings.Builder
	for i, seg := range segments {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			if i > 0 {
				sb.WriteString("Z ")
			}
			sb.WriteString("M ")
		case sfnt.SegmentOpLineTo:
			sb.WriteString("L ")
		case sfnt.SegmentOpQuadTo:
			sb.WriteString("Q ")
		case sfnt.SegmentOpCubeTo:
			sb.WriteString("C ")
		}
		for _, p := range seg.Args[:argCount(seg.Op)] {
			sb.WriteString(formatCoord(fixedToFloat(p.X) + dx))
			sb.WriteByte(' ')
			sb.WriteString(formatCoord(fixedToFloat(p.Y) + dy))
			sb.WriteByte(' ')
		}
	}
	sb.WriteString("Z")
	outline.D = sb.String()

	return outline, nil
}

// updateBounds extends the outline bounds with the point p.
func (o *GlyphOutline) updateBounds(p fixed.Point26_6) {
	x, y := fixedToFloat(p.X), fixedToFloat(p.Y)
	o.MinX = math.Min(o.MinX, x)
	o.MinY = math.Min(o.MinY, y)
	o.MaxX = math.Max(o.MaxX, x)
	o.MaxY = math.Max(o.MaxY, y)
}

// argCount returns the number of points used by a segment operation.
func argCount(op sfnt.SegmentOp) int {
	switch op {
	case sfnt.SegmentOpQuadTo:
		return 2
	case sfnt.SegmentOpCubeTo:
		return 3
	default:
		return 1
	}
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

// formatCoord prints a coordinate with at most two decimals.
func formatCoord(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		s = "0"
	}
	return s
}
