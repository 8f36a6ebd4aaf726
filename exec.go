package favico

import (
	"bytes"
	"errors"
	"fmt"
	"image/png"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/esimov/favico/utils"
	"golang.org/x/term"
)

// PipeName is the file name that indicates stdout is being used.
const PipeName = "-"

// Ops holds the output destinations of a build.
type Ops struct {
	// Outputs receive the icon container. PipeName writes it to stdout.
	Outputs []string
	// SVGOut receives a copy of the vector art, for reference only.
	SVGOut string
	// AltSVGOut receives the alternate state vector art, if any.
	AltSVGOut string
	// PNGDir receives one PNG per rasterized size.
	PNGDir string

	stdout io.Writer
}

// Execute builds the favicon and writes it to every destination from op.
// Nothing is written unless the whole build succeeded.
func (b *Builder) Execute(op *Ops) error {
	if len(op.Outputs) == 0 {
		return errors.New("no output destination provided")
	}

	if b.Spinner != nil {
		// Capture CTRL-C signal and restores back the cursor visibility.
		signalChan := make(chan os.Signal, 1)
		signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
		defer func() {
			signal.Stop(signalChan)
			close(signalChan)
		}()
		go func() {
			if _, ok := <-signalChan; ok {
				b.Spinner.RestoreCursor()
				os.Exit(1)
			}
		}()

		b.Spinner.Start()
	}

	res, err := b.Build()

	if b.Spinner != nil {
		if err != nil {
			b.Spinner.StopMsg = fmt.Sprintf("%s %s %s\n",
				utils.DecorateText("⚡ FAVICO", utils.StatusMessage),
				utils.DecorateText("generating favicon failed...", utils.DefaultMessage),
				utils.DecorateText("✘", utils.ErrorMessage),
			)
		} else {
			b.Spinner.StopMsg = fmt.Sprintf("%s %s %s\n",
				utils.DecorateText("⚡ FAVICO", utils.StatusMessage),
				utils.DecorateText("⇢", utils.DefaultMessage),
				utils.DecorateText("the favicon has been generated successfully ✔", utils.SuccessMessage),
			)
		}
		b.Spinner.Stop()
	}
	if err != nil {
		return err
	}

	return op.persist(res)
}

// persist writes the build result to the destinations.
func (op *Ops) persist(res *Result) error {
	for _, out := range op.Outputs {
		if err := op.writeFile(out, res.ICO); err != nil {
			return err
		}
		if out != PipeName {
			log.Printf("✓ Favicon saved as %s", utils.DecorateText(out, utils.SuccessMessage))
		}
	}

	if op.SVGOut != "" {
		if err := op.writeFile(op.SVGOut, res.SVG); err != nil {
			return err
		}
		log.Printf("✓ Favicon SVG saved for reference as %s", utils.DecorateText(op.SVGOut, utils.SuccessMessage))
	}

	if op.AltSVGOut != "" && res.AltSVG != nil {
		if err := op.writeFile(op.AltSVGOut, res.AltSVG); err != nil {
			return err
		}
		log.Printf("✓ Alternate favicon SVG saved as %s", utils.DecorateText(op.AltSVGOut, utils.SuccessMessage))
	}

	if op.PNGDir != "" {
		for _, img := range res.Images {
			s := strconv.Itoa(img.Bounds().Dx())
			path := filepath.Join(op.PNGDir, "favicon-"+s+"x"+s+".png")
			var buf bytes.Buffer
			if err := png.Encode(&buf, img); err != nil {
				return fmt.Errorf("could not encode %s: %w", path, err)
			}
			if err := WriteFiles(buf.Bytes(), path); err != nil {
				return err
			}
		}
		log.Printf("✓ PNG files saved in %s", utils.DecorateText(op.PNGDir, utils.SuccessMessage))
	}
	return nil
}

// writeFile writes data to the destination, or to stdout in case of PipeName.
func (op *Ops) writeFile(path string, data []byte) error {
	if path != PipeName {
		return WriteFiles(data, path)
	}
	if op.stdout != nil {
		_, err := op.stdout.Write(data)
		return err
	}
	if term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("`-` should be used with a pipe for stdout")
	}
	_, err := os.Stdout.Write(data)
	return err
}

// WriteFiles writes data to every path, replacing the existing files.
// Each file is first written to a temporary file in the same directory
// and then renamed, so a failed write never leaves a truncated file behind.
func WriteFiles(data []byte, paths ...string) error {
	for _, path := range paths {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("unable to create the destination directory: %w", err)
		}

		tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*")
		if err != nil {
			return fmt.Errorf("unable to create the destination file: %w", err)
		}
		if _, err := tmp.Write(data); err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
			return fmt.Errorf("unable to write %s: %w", path, err)
		}
		if err := tmp.Close(); err != nil {
			os.Remove(tmp.Name())
			return fmt.Errorf("unable to write %s: %w", path, err)
		}
		if err := os.Chmod(tmp.Name(), 0644); err != nil {
			os.Remove(tmp.Name())
			return err
		}
		if err := os.Rename(tmp.Name(), path); err != nil {
			os.Remove(tmp.Name())
			return fmt.Errorf("unable to replace %s: %w", path, err)
		}
	}
	return nil
}
