package favico

import (
	"errors"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRaster_ShouldKeepSizeOrder(t *testing.T) {
	sizes := []int{48, 16, 256, 32, 24, 64, 16}

	images, err := Rasterize([]byte(sampleSVG), sizes, &RasterOptions{Workers: 3})
	if !assert.NoError(t, err) {
		return
	}
	if assert.Len(t, images, len(sizes)) {
		for i, size := range sizes {
			assert.Equal(t, size, images[i].Bounds().Dx(), "image #%d", i)
			assert.Equal(t, size, images[i].Bounds().Dy(), "image #%d", i)
		}
	}
}

func TestRaster_SupersampleOptions(t *testing.T) {
	for _, supersample := range []int{-1, 0, 1, 2, 4} {
		images, err := Rasterize([]byte(sampleSVG), []int{16}, &RasterOptions{Supersample: supersample})
		if assert.NoError(t, err) {
			c := images[0].NRGBAAt(8, 8)
			assert.True(t, near(c, color.NRGBA{R: 0xff, A: 0xff}, 2), "supersample %d: got %v", supersample, c)
		}
	}
}

func TestRaster_SupersampleFactor(t *testing.T) {
	testCases := map[int]int{
		0:  DefaultSupersample,
		-3: 1,
		1:  1,
		2:  2,
		8:  8,
	}
	for in, want := range testCases {
		assert.Equal(t, want, supersampleFactor(in), "supersample %d", in)
	}
}

func TestRaster_ShouldFitNonSquareArt(t *testing.T) {
	doc := `<svg xmlns="http://www.w3.org/2000/svg" width="64" height="32" viewBox="0 0 64 32">
  <rect x="0" y="0" width="64" height="32" fill="#0000ff"/>
</svg>`

	images, err := Rasterize([]byte(doc), []int{32}, nil)
	if !assert.NoError(t, err) {
		return
	}

	// The art is letterboxed: the top and bottom quarters stay transparent.
	img := images[0]
	assert.Equal(t, uint8(0), img.NRGBAAt(16, 2).A)
	assert.Equal(t, uint8(0), img.NRGBAAt(16, 29).A)
	assert.True(t, near(img.NRGBAAt(16, 16), color.NRGBA{B: 0xff, A: 0xff}, 2))
}

func TestRaster_RelativeRootDimensions(t *testing.T) {
	testCases := map[string]string{
		"viewBox first": `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 64 64" width="100%" height="100%">
  <rect x="0" y="0" width="64" height="64" fill="#ff0000"/>
</svg>`,
		"viewBox last": `<svg xmlns="http://www.w3.org/2000/svg" width="100%" height="100%" viewBox="0 0 64 64">
  <rect x="0" y="0" width="64" height="64" fill="#ff0000"/>
</svg>`,
		"viewBox with commas": `<svg xmlns="http://www.w3.org/2000/svg" width="100%" viewBox="0,0,64,64">
  <rect x="0" y="0" width="64" height="64" fill="#ff0000"/>
</svg>`,
	}

	for name, doc := range testCases {
		t.Run(name, func(t *testing.T) {
			images, err := Rasterize([]byte(doc), []int{16}, nil)
			if !assert.NoError(t, err) {
				return
			}
			c := images[0].NRGBAAt(8, 8)
			assert.True(t, near(c, color.NRGBA{R: 0xff, A: 0xff}, 2), "got %v", c)
		})
	}
}

func TestRaster_RootViewBox(t *testing.T) {
	vb, ok := rootViewBox([]byte(`<?xml version="1.0"?>
<svg xmlns="http://www.w3.org/2000/svg" width="100%" height="100%" viewBox="-2 4 64 32"/>`))
	assert.True(t, ok)
	assert.Equal(t, viewBox{X: -2, Y: 4, W: 64, H: 32}, vb)

	vb, ok = rootViewBox([]byte(`<svg xmlns="http://www.w3.org/2000/svg" width="48px" height="24"/>`))
	assert.True(t, ok)
	assert.Equal(t, viewBox{W: 48, H: 24}, vb)

	_, ok = rootViewBox([]byte(`<svg xmlns="http://www.w3.org/2000/svg" width="100%" height="100%"/>`))
	assert.False(t, ok)
	_, ok = rootViewBox([]byte(`<svg viewBox="0 0 64"/>`))
	assert.False(t, ok)
	_, ok = rootViewBox([]byte(`<html width="64" height="64"/>`))
	assert.False(t, ok)
}

func TestRaster_InvalidInput(t *testing.T) {
	_, err := Rasterize([]byte(sampleSVG), []int{16, 0}, nil)
	assert.True(t, errors.Is(err, ErrInvalidSize))

	_, err = Rasterize([]byte(`<svg xmlns="http://www.w3.org/2000/svg"></svg>`), []int{16}, nil)
	assert.Error(t, err)

	_, err = Rasterize([]byte(`<svg xmlns="http://www.w3.org/2000/svg" width="100%" height="100%"></svg>`), []int{16}, nil)
	assert.Error(t, err)

	_, err = Rasterize([]byte(`<svg width="10" height="10"><path d="M 0 0 L`), []int{16}, nil)
	assert.Error(t, err)
}

func Benchmark_Rasterize(b *testing.B) {
	font, err := LoadFont(writeTestFont(b))
	if err != nil {
		b.Fatalf("could not load the test font: %v", err)
	}
	doc, err := ComposeSVG(font, DefaultStyle)
	if err != nil {
		b.Fatalf("could not compose the SVG art: %v", err)
	}
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := Rasterize(doc, DefaultSizes, nil); err != nil {
			b.FailNow()
		}
	}
}
