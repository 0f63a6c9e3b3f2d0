// Package assets loads and writes image files.
package assets

import (
	"image"
	"image/draw"
	"image/png"
	"os"

	"github.com/pkg/errors"
)

// LoadPNG decodes the PNG at path into tightly packed RGBA8 rows with a
// top-left origin, ready for a texture upload.
func LoadPNG(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %q", path)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "decode png %q", path)
	}
	return ToRGBA(img), nil
}

// SavePNG encodes img to path, replacing any existing file.
func SavePNG(path string, img image.Image) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %q", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "close %q", path)
		}
	}()
	if err := png.Encode(f, img); err != nil {
		return errors.Wrapf(err, "encode png %q", path)
	}
	return nil
}

// ToRGBA returns img as an *image.RGBA whose stride is exactly 4*width and
// whose bounds start at the origin. Images already in that shape are
// returned as is.
func ToRGBA(img image.Image) *image.RGBA {
	if m, ok := img.(*image.RGBA); ok && m.Stride == m.Rect.Dx()*4 && m.Rect.Min == (image.Point{}) {
		return m
	}
	dst := image.NewRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
	draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Src)
	return dst
}
