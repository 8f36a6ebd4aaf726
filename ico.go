package favico

import (
	"bytes"
	"fmt"
	"image"

	ico "github.com/sergeymakinen/go-ico"
)

// maxIconSize is the largest dimension an icon directory entry can describe.
const maxIconSize = 256

// EncodeICO packs the images, in order, into a single ICO container.
func EncodeICO(images []*image.NRGBA) ([]byte, error) {
	if len(images) == 0 {
		return nil, fmt.Errorf("no images to encode")
	}
	mm := make([]image.Image, len(images))
	for i, img := range images {
		mm[i] = img
	}

	var buf bytes.Buffer
	if err := ico.EncodeAll(&buf, mm); err != nil {
		return nil, fmt.Errorf("could not encode the icon: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeICO returns every bitmap stored in the ICO container in directory order.
func DecodeICO(data []byte) ([]image.Image, error) {
	mm, err := ico.DecodeAll(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("could not decode the icon: %w", err)
	}
	return mm, nil
}

// VerifyICO checks that the container holds exactly one square bitmap
// per size, in the same order as the size list.
func VerifyICO(data []byte, sizes []int) error {
	mm, err := DecodeICO(data)
	if err != nil {
		return err
	}
	if len(mm) != len(sizes) {
		return fmt.Errorf("icon holds %d images, expected %d", len(mm), len(sizes))
	}
	for i, m := range mm {
		d := m.Bounds().Size()
		if d.X != sizes[i] || d.Y != sizes[i] {
			return fmt.Errorf("icon image #%d is %dx%d, expected %dx%d", i, d.X, d.Y, sizes[i], sizes[i])
		}
	}
	return nil
}
