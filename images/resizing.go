package images

import (
	"image"

	"github.com/nfnt/resize"
	"github.com/pkg/errors"
)

// ResizeToInput stretches an image to the model input size.
//
// The aspect ratio is not preserved; detectors scale their outputs back by the
// per-axis ratio between the original and the input size.
//
// Arguments:
//   - img: The image to resize.
//   - width: The target width in pixels.
//   - height: The target height in pixels.
//
// Returns:
//   - image.Image: The resized image.
//   - error: An error if the target size is not positive.
func ResizeToInput(img image.Image, width, height int) (image.Image, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Errorf("invalid resize target %dx%d", width, height)
	}

	b := img.Bounds()
	if b.Dx() == width && b.Dy() == height {
		return img, nil
	}

	return resize.Resize(uint(width), uint(height), img, resize.Lanczos3), nil
}
