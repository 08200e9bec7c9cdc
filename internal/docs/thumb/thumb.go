// Package thumb renders small preview images for uploaded pictures. Only
// the formats on the image whitelist are handled; anything else is reported
// as not an image and the upload proceeds without a preview.
package thumb

import (
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"strings"
)

// SquareFitSize is the bounding box for generated thumbnails. The image is
// scaled to fit inside it with its aspect ratio kept.
const SquareFitSize = 100

// ErrNotImage is returned when the payload cannot be decoded in the format
// its extension claims.
var ErrNotImage = errors.New("thumb: not a decodable image")

// Generate decodes an image from r, scales it to fit within size x size and
// encodes it to w in the same format. ext picks the codec (".png", ".gif",
// ".jpg", ".jpeg").
func Generate(w io.Writer, r io.Reader, ext string, size int) error {
	var (
		src image.Image
		err error
	)
	switch strings.ToLower(ext) {
	case ".png":
		src, err = png.Decode(r)
	case ".gif":
		src, err = gif.Decode(r)
	case ".jpg", ".jpeg":
		src, err = jpeg.Decode(r)
	default:
		return fmt.Errorf("thumb: unsupported extension %q", ext)
	}
	if err != nil {
		return ErrNotImage
	}

	dst := scaleToFit(src, size)

	switch strings.ToLower(ext) {
	case ".png":
		return png.Encode(w, dst)
	case ".gif":
		return gif.Encode(w, dst, nil)
	default:
		return jpeg.Encode(w, dst, nil)
	}
}

// scaleToFit shrinks img so both sides are at most size, keeping the aspect
// ratio. Images already inside the box are returned untouched. Plain
// nearest-neighbour sampling; previews do not need better.
func scaleToFit(img image.Image, size int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= size && h <= size {
		return img
	}

	dw, dh := size, size
	if w > h {
		dh = max(h*size/w, 1)
	} else {
		dw = max(w*size/h, 1)
	}

	dst := image.NewNRGBA(image.Rect(0, 0, dw, dh))
	for y := 0; y < dh; y++ {
		sy := b.Min.Y + y*h/dh
		for x := 0; x < dw; x++ {
			sx := b.Min.X + x*w/dw
			dst.Set(x, y, img.At(sx, sy))
		}
	}
	return dst
}
