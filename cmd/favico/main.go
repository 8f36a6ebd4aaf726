package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/esimov/favico"
	"github.com/esimov/favico/utils"
)

const helpBanner = `
┌─┐┌─┐┬  ┬┬┌─┐┌─┐
├┤ ├─┤└┐┌┘││  │ │
└  ┴ ┴ └┘ ┴└─┘└─┘

Favicon generator from SVG logos or font glyphs.
    Version: %s

`

// Version indicates the current build version.
var Version string

// listFlag collects the values of a repeatable flag.
type listFlag []string

func (l *listFlag) String() string { return strings.Join(*l, ",") }

func (l *listFlag) Set(v string) error {
	*l = append(*l, v)
	return nil
}

// sizesFlag parses a comma separated list of icon sizes.
type sizesFlag []int

func (s *sizesFlag) String() string {
	parts := make([]string, len(*s))
	for i, v := range *s {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

func (s *sizesFlag) Set(v string) error {
	var sizes []int
	for _, p := range strings.Split(v, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return fmt.Errorf("invalid size %q", p)
		}
		sizes = append(sizes, n)
	}
	*s = sizes
	return nil
}

var (
	// Flags
	mode        = flag.String("mode", string(favico.SourceFile), "Source mode: file or glyph")
	root        = flag.String("root", ".", "Project root, relative paths are resolved against it")
	source      = flag.String("in", "src/assets/logo.svg", "Source SVG file or URL (file mode)")
	fontPath    = flag.String("font", "scripts/font.ttf", "Font file (glyph mode)")
	glyph       = flag.String("glyph", favico.DefaultStyle.Glyph, "Glyph to render (glyph mode)")
	background  = flag.String("bg", favico.DefaultStyle.Background, "Background color")
	foreground  = flag.String("fg", favico.DefaultStyle.Foreground, "Glyph color")
	altBg       = flag.String("alt-bg", "", "Alternate state background color")
	altFg       = flag.String("alt-fg", "", "Alternate state glyph color")
	fontSize    = flag.Float64("font-size", favico.DefaultStyle.FontSize, "Glyph font size in pixels")
	canvasSize  = flag.Int("canvas", favico.DefaultStyle.CanvasSize, "Canvas size of the generated SVG")
	svgOut      = flag.String("svg-out", "scripts/favicon.svg", "Reference copy of the SVG art (empty to skip)")
	altSvgOut   = flag.String("alt-svg-out", "scripts/favicon-alt.svg", "Alternate state SVG art")
	pngDir      = flag.String("png-dir", "", "Directory for the intermediate PNG files (empty to skip)")
	supersample = flag.Int("supersample", favico.DefaultSupersample, "Render factor used before downscaling, 1 disables it")
	workers     = flag.Int("conc", runtime.NumCPU(), "Number of sizes to rasterize concurrently")

	outputs listFlag
	sizes   = sizesFlag(favico.DefaultSizes)
)

func main() {
	log.SetFlags(0)

	flag.Var(&outputs, "out", "Favicon destination, repeatable (default public/favicon.ico and src/assets/favicon.ico)")
	flag.Var(&sizes, "sizes", "Comma separated list of icon sizes")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, helpBanner, Version)
		flag.PrintDefaults()
	}
	flag.Parse()

	validModes := []string{string(favico.SourceFile), string(favico.SourceGlyph)}
	if !utils.Contains(validModes, *mode) {
		flag.Usage()
		log.Fatalf(utils.DecorateText("\nUnsupported source mode: %q", utils.ErrorMessage), *mode)
	}

	if len(outputs) == 0 {
		outputs = listFlag{"public/favicon.ico", "src/assets/favicon.ico"}
	}

	b := &favico.Builder{
		Mode:       favico.SourceMode(*mode),
		SourcePath: resolve(*source),
		FontPath:   resolve(*fontPath),
		Style: favico.Style{
			Background: *background,
			Foreground: *foreground,
			Glyph:      *glyph,
			FontSize:   *fontSize,
			CanvasSize: *canvasSize,
		},
		Sizes:       sizes,
		Supersample: *supersample,
		Workers:     *workers,
	}
	if *altBg != "" || *altFg != "" {
		b.AltStyle = &favico.Style{
			Background: *altBg,
			Foreground: *altFg,
		}
	}

	op := &favico.Ops{
		SVGOut: resolve(*svgOut),
		PNGDir: resolve(*pngDir),
	}
	if b.AltStyle != nil {
		op.AltSVGOut = resolve(*altSvgOut)
	}
	for _, out := range outputs {
		op.Outputs = append(op.Outputs, resolve(out))
	}

	spinnerText := fmt.Sprintf("%s %s",
		utils.DecorateText("⚡ FAVICO", utils.StatusMessage),
		utils.DecorateText("⇢ generating favicon...", utils.DefaultMessage))
	b.Spinner = utils.NewSpinner(os.Stderr, spinnerText, time.Millisecond*80)

	now := time.Now()
	if err := b.Execute(op); err != nil {
		log.Fatalf(
			utils.DecorateText("\nError generating the favicon: %s", utils.ErrorMessage),
			utils.DecorateText(fmt.Sprintf("\n\tReason: %v\n", err), utils.DefaultMessage),
		)
	}
	fmt.Fprintf(os.Stderr, "\nExecution time: %s\n", utils.DecorateText(utils.FormatTime(time.Since(now)), utils.SuccessMessage))
}

// resolve returns path relative to the project root.
// Empty paths, URLs, absolute paths and the pipe name are returned unchanged.
func resolve(path string) string {
	if path == "" || path == favico.PipeName || filepath.IsAbs(path) || utils.IsValidUrl(path) {
		return path
	}
	return filepath.Join(*root, path)
}
