package favico

import (
	"errors"
	"fmt"
	"image"
	"os"

	"github.com/esimov/favico/utils"
)

// SourceMode selects where the vector art comes from.
type SourceMode string

const (
	// SourceFile reads an existing SVG document.
	SourceFile SourceMode = "file"
	// SourceGlyph renders a single glyph onto a circular background.
	SourceGlyph SourceMode = "glyph"
)

var (
	// ErrNotFound is returned when a required input file does not exist.
	ErrNotFound = errors.New("input file not found")
	// ErrRender is returned when the glyph outline could not be turned into vector path data.
	ErrRender = errors.New("could not render glyph path")
	// ErrInvalidSize is returned for icon sizes outside of the 1..256 range.
	ErrInvalidSize = errors.New("invalid icon size")
)

// DefaultSizes are the favicon dimensions used when no size list is provided.
var DefaultSizes = []int{16, 32, 48}

// DefaultStyle is the glyph style of the generated favicon.
var DefaultStyle = Style{
	Background: "#122037",
	Foreground: "#ffffff",
	Glyph:      "n",
	FontSize:   180,
	CanvasSize: 256,
}

// Style describes the generated glyph art.
type Style struct {
	Background string
	Foreground string
	Glyph      string
	FontSize   float64
	CanvasSize int
}

// Builder options
type Builder struct {
	Mode        SourceMode
	SourcePath  string
	FontPath    string
	Style       Style
	AltStyle    *Style
	Sizes       []int
	Supersample int
	Workers     int
	Spinner     *utils.Spinner
}

// Result holds everything a single build pass produces.
// Nothing in it is written to disk by Build.
type Result struct {
	SVG    []byte
	AltSVG []byte
	ICO    []byte
	Images []*image.NRGBA
}

// Build runs the complete pipeline: it acquires or composes the vector art,
// rasterizes it at every configured size and packs the bitmaps into an icon container.
func (b *Builder) Build() (*Result, error) {
	var (
		res = &Result{}
		err error
	)

	sizes := b.Sizes
	if len(sizes) == 0 {
		sizes = DefaultSizes
	}
	if err := validateSizes(sizes); err != nil {
		return nil, err
	}

	switch b.Mode {
	case SourceFile, "":
		res.SVG, err = b.Acquire()
		if err != nil {
			return nil, err
		}
	case SourceGlyph:
		font, err := LoadFont(b.FontPath)
		if err != nil {
			return nil, err
		}
		style := b.Style.withDefaults(DefaultStyle)
		res.SVG, err = ComposeSVG(font, style)
		if err != nil {
			return nil, err
		}
		if b.AltStyle != nil {
			res.AltSVG, err = ComposeSVG(font, b.AltStyle.withDefaults(style))
			if err != nil {
				return nil, fmt.Errorf("alternate style: %w", err)
			}
		}
	default:
		return nil, fmt.Errorf("unsupported source mode: %q", b.Mode)
	}

	res.Images, err = Rasterize(res.SVG, sizes, &RasterOptions{
		Supersample: b.Supersample,
		Workers:     b.Workers,
	})
	if err != nil {
		return nil, err
	}

	res.ICO, err = EncodeICO(res.Images)
	if err != nil {
		return nil, err
	}
	if err := VerifyICO(res.ICO, sizes); err != nil {
		return nil, err
	}

	return res, nil
}

// Acquire reads the SVG source art, downloading it first if the source is a URL.
func (b *Builder) Acquire() ([]byte, error) {
	path := b.SourcePath

	if utils.IsValidUrl(path) {
		f, err := utils.DownloadFile(path)
		if f != nil {
			defer os.Remove(f.Name())
			defer f.Close()
		}
		if err != nil {
			return nil, err
		}
		path = f.Name()
	}

	data, err := readInput(path)
	if err != nil {
		return nil, err
	}
	if !isSVG(data) {
		return nil, fmt.Errorf("%s is not an SVG document", b.SourcePath)
	}
	return data, nil
}

// withDefaults returns a copy of s with the zero fields taken from def.
func (s Style) withDefaults(def Style) Style {
	if s.Background == "" {
		s.Background = def.Background
	}
	if s.Foreground == "" {
		s.Foreground = def.Foreground
	}
	if s.Glyph == "" {
		s.Glyph = def.Glyph
	}
	if s.FontSize <= 0 {
		s.FontSize = def.FontSize
	}
	if s.CanvasSize <= 0 {
		s.CanvasSize = def.CanvasSize
	}
	return s
}

// readInput reads a required input file. A missing file is reported as ErrNotFound.
func readInput(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("unable to read %s: %w", path, err)
	}
	return data, nil
}

// validateSizes checks that every icon size fits into an icon directory entry.
func validateSizes(sizes []int) error {
	for _, s := range sizes {
		if s < 1 || s > maxIconSize {
			return fmt.Errorf("%w: %d (expected 1..%d)", ErrInvalidSize, s, maxIconSize)
		}
	}
	return nil
}
