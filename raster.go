package favico

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"image"
	"math"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/esimov/favico/utils"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// maxWorkers sets the maximum number of concurrently running workers.
const maxWorkers = 20

// DefaultSupersample is the factor the art is rendered at before being reduced to the icon size.
const DefaultSupersample = 4

// RasterOptions holds the rasterization settings.
type RasterOptions struct {
	// Supersample renders the art at Supersample times the icon size
	// and reduces it with a Lanczos filter. Zero selects DefaultSupersample,
	// 1 or a negative value disables it.
	Supersample int
	// Workers limits the number of sizes rasterized concurrently.
	Workers int
}

// rasterJob is one icon size to rasterize together with its position in the size list.
type rasterJob struct {
	index int
	size  int
}

// rasterResult holds the relevant information about one rasterized icon size.
type rasterResult struct {
	index int
	img   *image.NRGBA
	err   error
}

// Rasterize renders the SVG document at every size from sizes.
// The sizes are rasterized concurrently, but the returned images
// keep the order of the size list.
func Rasterize(doc []byte, sizes []int, opts *RasterOptions) ([]*image.NRGBA, error) {
	if opts == nil {
		opts = &RasterOptions{}
	}
	if err := validateSizes(sizes); err != nil {
		return nil, err
	}
	// Parse once up front so that a broken document fails before any worker starts.
	if _, err := parseSVG(doc); err != nil {
		return nil, err
	}

	supersample := supersampleFactor(opts.Supersample)

	workers := opts.Workers
	if workers <= 0 || workers > maxWorkers {
		workers = runtime.NumCPU()
	}
	workers = utils.Min(workers, len(sizes))

	var wg sync.WaitGroup
	jobs := make(chan rasterJob)
	results := make(chan rasterResult)

	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for job := range jobs {
				img, err := renderSVG(doc, job.size, supersample)
				results <- rasterResult{index: job.index, img: img, err: err}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i, size := range sizes {
			jobs <- rasterJob{index: i, size: size}
		}
	}()

	// Close the channel after the values are consumed.
	go func() {
		defer close(results)
		wg.Wait()
	}()

	var err error
	images := make([]*image.NRGBA, len(sizes))
	for res := range results {
		if res.err != nil {
			if err == nil {
				err = fmt.Errorf("rasterize %dx%d: %w", sizes[res.index], sizes[res.index], res.err)
			}
			continue
		}
		images[res.index] = res.img
	}
	if err != nil {
		return nil, err
	}
	return images, nil
}

// supersampleFactor returns the render factor for the Supersample option.
func supersampleFactor(n int) int {
	if n == 0 {
		return DefaultSupersample
	}
	return utils.Max(n, 1)
}

// renderSVG rasterizes the SVG document into a size x size image.
// Each call parses its own icon, since the icon transform is mutated by SetTarget.
func renderSVG(doc []byte, size, supersample int) (*image.NRGBA, error) {
	icon, err := parseSVG(doc)
	if err != nil {
		return nil, err
	}

	// Non square art is fitted into the square and centered.
	w := size * supersample
	scale := math.Min(float64(w)/icon.ViewBox.W, float64(w)/icon.ViewBox.H)
	tw, th := icon.ViewBox.W*scale, icon.ViewBox.H*scale
	icon.SetTarget((float64(w)-tw)/2, (float64(w)-th)/2, tw, th)

	rgba := image.NewRGBA(image.Rect(0, 0, w, w))
	scanner := rasterx.NewScannerGV(w, w, rgba, rgba.Bounds())
	raster := rasterx.NewDasher(w, w, scanner)
	icon.Draw(raster, 1.0)

	if supersample == 1 {
		return imaging.Clone(rgba), nil
	}
	return imaging.Resize(rgba, size, size, imaging.Lanczos), nil
}

// parseSVG decodes the SVG document. Unsupported elements are ignored.
func parseSVG(doc []byte) (*oksvg.SvgIcon, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("could not parse the SVG document: %w", err)
	}
	// oksvg stops reading the root attributes on the first one it cannot parse,
	// e.g. width="100%", so a viewBox declared after it is lost.
	if icon.ViewBox.W <= 0 || icon.ViewBox.H <= 0 {
		if vb, ok := rootViewBox(doc); ok {
			icon.ViewBox = vb
		}
	}
	if icon.ViewBox.W <= 0 || icon.ViewBox.H <= 0 {
		return nil, fmt.Errorf("could not parse the SVG document: missing dimensions")
	}
	return icon, nil
}

// viewBox mirrors the oksvg icon view box.
type viewBox = struct{ X, Y, W, H float64 }

// rootViewBox reads the view box from the attributes of the root svg element.
// Without a viewBox attribute the numeric width and height are used.
func rootViewBox(doc []byte) (viewBox, bool) {
	var vb viewBox

	dec := xml.NewDecoder(bytes.NewReader(doc))
	for {
		tok, err := dec.Token()
		if err != nil {
			return vb, false
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if se.Name.Local != "svg" {
			return vb, false
		}

		var width, height float64
		for _, attr := range se.Attr {
			switch attr.Name.Local {
			case "viewBox":
				fields := strings.FieldsFunc(attr.Value, func(r rune) bool {
					return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
				})
				if len(fields) != 4 {
					return vb, false
				}
				var v [4]float64
				for i, f := range fields {
					if v[i], err = strconv.ParseFloat(f, 64); err != nil {
						return vb, false
					}
				}
				vb.X, vb.Y, vb.W, vb.H = v[0], v[1], v[2], v[3]
			case "width":
				width = parseLength(attr.Value)
			case "height":
				height = parseLength(attr.Value)
			}
		}
		if vb.W <= 0 || vb.H <= 0 {
			vb.W, vb.H = width, height
		}
		return vb, vb.W > 0 && vb.H > 0
	}
}

// parseLength returns the value of an absolute length. Relative lengths, like percentages, return 0.
func parseLength(s string) float64 {
	s = strings.TrimSpace(s)
	for _, unit := range []string{"px", "pt", "mm", "cm"} {
		s = strings.TrimSuffix(s, unit)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
