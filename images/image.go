// Image decoding for evaluation inputs.

package images

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/pkg/errors"
	"golang.org/x/image/bmp"
)

// ImageFormat represents supported image formats.
type ImageFormat string

// ImageFormat constants
const (
	// FormatJPEG is the JPEG image format.
	FormatJPEG ImageFormat = "jpeg"
	// FormatWebP is the WebP image format.
	FormatWebP ImageFormat = "webp"
	// FormatPNG is the PNG image format.
	FormatPNG ImageFormat = "png"
	// FormatBMP is the BMP image format.
	FormatBMP ImageFormat = "bmp"
)

var extensionFormats = map[string]ImageFormat{
	".jpg":  FormatJPEG,
	".jpeg": FormatJPEG,
	".png":  FormatPNG,
	".webp": FormatWebP,
	".bmp":  FormatBMP,
}

// FormatFromPath returns the image format implied by the file extension.
//
// Arguments:
//   - path: The image file path.
//
// Returns:
//   - ImageFormat: The detected format.
//   - bool: False if the extension is not a supported image type.
func FormatFromPath(path string) (ImageFormat, bool) {
	format, ok := extensionFormats[strings.ToLower(filepath.Ext(path))]
	return format, ok
}

// Decode decodes raw image bytes of the given format.
func Decode(data []byte, format ImageFormat) (image.Image, error) {
	r := bytes.NewReader(data)

	var (
		img image.Image
		err error
	)
	switch format {
	case FormatJPEG:
		img, err = jpeg.Decode(r)
	case FormatPNG:
		img, err = png.Decode(r)
	case FormatWebP:
		img, err = webp.Decode(r)
	case FormatBMP:
		img, err = bmp.Decode(r)
	default:
		return nil, errors.Errorf("unsupported image format: %s", format)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s image", format)
	}

	return img, nil
}

// Load reads and decodes an image file, choosing the decoder by extension.
//
// Arguments:
//   - path: The image file path.
//
// Returns:
//   - image.Image: The decoded image.
//   - error: An error naming the file if it cannot be read or decoded.
func Load(path string) (image.Image, error) {
	format, ok := FormatFromPath(path)
	if !ok {
		return nil, errors.Errorf("unsupported image extension: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read image %s", path)
	}

	img, err := Decode(data, format)
	if err != nil {
		return nil, errors.Wrapf(err, "image %s", path)
	}
	if img.Bounds().Empty() {
		return nil, errors.Errorf("image %s has no pixels", path)
	}

	return img, nil
}
