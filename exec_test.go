package favico

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/esimov/favico/utils"
	"github.com/stretchr/testify/assert"
)

func TestExec_ShouldWriteEveryDestination(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()

	b := &Builder{
		Mode:     SourceGlyph,
		FontPath: writeTestFont(t),
		AltStyle: &Style{Background: "#ffffff", Foreground: "#122037"},
		Spinner:  utils.NewSpinner(&bytes.Buffer{}, "generating", 0),
	}
	op := &Ops{
		Outputs:   []string{filepath.Join(dir, "public", "favicon.ico"), filepath.Join(dir, "src", "assets", "favicon.ico")},
		SVGOut:    filepath.Join(dir, "scripts", "favicon.svg"),
		AltSVGOut: filepath.Join(dir, "scripts", "favicon-alt.svg"),
		PNGDir:    filepath.Join(dir, "png"),
	}
	if !assert.NoError(b.Execute(op)) {
		return
	}

	public, err := os.ReadFile(op.Outputs[0])
	assert.NoError(err)
	assets, err := os.ReadFile(op.Outputs[1])
	assert.NoError(err)
	assert.Equal(public, assets)
	assert.NoError(VerifyICO(public, DefaultSizes))

	svg, err := os.ReadFile(op.SVGOut)
	assert.NoError(err)
	assert.True(isSVG(svg))

	_, err = os.Stat(op.AltSVGOut)
	assert.NoError(err)

	for _, name := range []string{"favicon-16x16.png", "favicon-32x32.png", "favicon-48x48.png"} {
		_, err := os.Stat(filepath.Join(op.PNGDir, name))
		assert.NoError(err, name)
	}
}

func TestExec_ShouldNotWriteOnFailure(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()

	existing := filepath.Join(dir, "existing.ico")
	assert.NoError(os.WriteFile(existing, []byte("previous run"), 0644))
	fresh := filepath.Join(dir, "public", "favicon.ico")

	b := &Builder{Mode: SourceGlyph, FontPath: filepath.Join(dir, "missing.ttf")}
	err := b.Execute(&Ops{
		Outputs: []string{existing, fresh},
		SVGOut:  filepath.Join(dir, "favicon.svg"),
	})
	assert.ErrorIs(err, ErrNotFound)

	data, err := os.ReadFile(existing)
	assert.NoError(err)
	assert.Equal("previous run", string(data))

	_, err = os.Stat(fresh)
	assert.True(os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "favicon.svg"))
	assert.True(os.IsNotExist(err))
}

func TestExec_ShouldWriteToPipe(t *testing.T) {
	var out bytes.Buffer

	b := &Builder{Mode: SourceFile, SourcePath: writeTestSVG(t, sampleSVG)}
	op := &Ops{Outputs: []string{PipeName}, stdout: &out}
	if !assert.NoError(t, b.Execute(op)) {
		return
	}
	assert.NoError(t, VerifyICO(out.Bytes(), DefaultSizes))
}

func TestExec_NoOutputs(t *testing.T) {
	b := &Builder{Mode: SourceFile, SourcePath: writeTestSVG(t, sampleSVG)}
	assert.Error(t, b.Execute(&Ops{}))
}

func TestExec_WriteFilesShouldReplace(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "favicon.ico")

	assert.NoError(WriteFiles([]byte("first"), path))
	assert.NoError(WriteFiles([]byte("second"), path))

	data, err := os.ReadFile(path)
	assert.NoError(err)
	assert.Equal("second", string(data))

	// No temporary files are left behind.
	entries, err := os.ReadDir(dir)
	assert.NoError(err)
	assert.Len(entries, 1)

	info, err := os.Stat(path)
	if assert.NoError(err) {
		assert.Equal(os.FileMode(0644), info.Mode().Perm())
	}
}
