package inference

import (
	"image"

	"github.com/nvr-ai/go-eval/images"
	"github.com/pkg/errors"
)

// PrepareInput resizes an image to the model input and writes it into dst as a
// planar RGB tensor scaled to [0, 1].
//
// Arguments:
//   - img: The image to prepare.
//   - width: The model input width.
//   - height: The model input height.
//   - dst: The destination buffer, holding at least 3*width*height floats.
//
// Returns:
//   - error: An error if the buffer is too small or the resize fails.
func PrepareInput(img image.Image, width, height int, dst []float32) error {
	channelSize := width * height
	if len(dst) < channelSize*3 {
		return errors.Errorf("destination tensor only holds %d floats, needs %d", len(dst), channelSize*3)
	}

	resized, err := images.ResizeToInput(img, width, height)
	if err != nil {
		return errors.Wrap(err, "failed to resize input")
	}

	red := dst[0:channelSize]
	green := dst[channelSize : channelSize*2]
	blue := dst[channelSize*2 : channelSize*3]

	b := resized.Bounds()
	i := 0
	for y := b.Min.Y; y < b.Min.Y+height; y++ {
		for x := b.Min.X; x < b.Min.X+width; x++ {
			r, g, bl, _ := resized.At(x, y).RGBA()
			red[i] = float32(r>>8) / 255.0
			green[i] = float32(g>>8) / 255.0
			blue[i] = float32(bl>>8) / 255.0
			i++
		}
	}

	return nil
}
