/*
Package favico generates multi resolution favicon files (.ico) from vector art.

The source art is either an existing SVG logo or a single glyph rendered from a
TrueType/OpenType font and composed onto a circular background. The art is
rasterized at every requested size (16, 32 and 48 pixels by default) and the
resulting bitmaps are packed, in order, into one icon container.

The package provides a command line interface, supporting various flags for the
source mode, the glyph style and the output destinations.
To check the supported commands type:

	$ favico --help

In case you wish to integrate the API in a self constructed environment here is a simple example:

	package main

	import (
		"fmt"
		"github.com/esimov/favico"
	)

	func main() {
		b := &favico.Builder{
			Mode:       favico.SourceFile,
			SourcePath: "src/assets/logo.svg",
		}

		res, err := b.Build()
		if err != nil {
			fmt.Printf("Error generating favicon: %s", err.Error())
			return
		}
		if err := favico.WriteFiles(res.ICO, "public/favicon.ico"); err != nil {
			fmt.Printf("Error writing favicon: %s", err.Error())
		}
	}
*/
package favico
