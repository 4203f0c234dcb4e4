package utils

import (
	"bytes"
	"errors"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	_ "image/gif"

	"github.com/nfnt/resize"
)

var ErrUnsupportedImage = errors.New("unsupported image format")

type ImageDimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ResizeIcon decodes an uploaded image, fits it inside a size x size square
// and re-encodes it. PNG input stays PNG so transparency survives; everything
// else becomes JPEG.
func ResizeIcon(r io.Reader, filename string, size uint) ([]byte, string, error) {
	img, format, err := decodeImage(r, filename)
	if err != nil {
		return nil, "", err
	}

	bounds := img.Bounds()
	if uint(bounds.Dx()) > size || uint(bounds.Dy()) > size {
		img = resize.Thumbnail(size, size, img, resize.Lanczos3)
	}

	out := "jpeg"
	if format == "png" {
		out = "png"
	}

	var buf bytes.Buffer
	if err := EncodeImage(img, out, &buf, 90); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), out, nil
}

func decodeImage(r io.Reader, filename string) (image.Image, string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		img, err := jpeg.Decode(r)
		return img, "jpeg", err
	case ".png":
		img, err := png.Decode(r)
		return img, "png", err
	default:
		img, format, err := image.Decode(r)
		if err != nil {
			return nil, "", ErrUnsupportedImage
		}
		return img, format, nil
	}
}

func EncodeImage(img image.Image, format string, writer io.Writer, quality int) error {
	switch strings.ToLower(format) {
	case "jpg", "jpeg":
		return jpeg.Encode(writer, img, &jpeg.Options{Quality: quality})
	case "png":
		return png.Encode(writer, img)
	default:
		return ErrUnsupportedImage
	}
}
