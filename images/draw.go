package images

import (
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"
	"github.com/pkg/errors"
)

// Overlay colors used when drawing evaluation inputs.
var (
	GroundTruthColor = color.RGBA{R: 0, G: 200, B: 0, A: 255}
	PredictionColor  = color.RGBA{R: 230, G: 30, B: 30, A: 255}
)

// Overlay is a labelled box drawn on top of an image.
type Overlay struct {
	// Box in coordinates normalized to the image size.
	Box   Box
	Label string
	Color color.Color
}

// DrawOverlays renders the overlays onto a copy of img and saves it as a PNG.
//
// Arguments:
//   - img: The source image. It is not modified.
//   - overlays: Boxes to draw, normalized to the image size.
//   - path: Destination PNG path. Parent directories are created.
//
// Returns:
//   - error: An error if the file cannot be written.
func DrawOverlays(img image.Image, overlays []Overlay, path string) error {
	dc := gg.NewContextForImage(img)
	w := float64(img.Bounds().Dx())
	h := float64(img.Bounds().Dy())

	dc.SetLineWidth(2)
	for _, o := range overlays {
		x, y := o.Box.XMin*w, o.Box.YMin*h
		dc.SetColor(o.Color)
		dc.DrawRectangle(x, y, o.Box.Width()*w, o.Box.Height()*h)
		dc.Stroke()
		if o.Label != "" {
			dc.DrawStringAnchored(o.Label, x+2, y+2, 0, 1)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "failed to create directory for %s", path)
	}

	return errors.Wrapf(dc.SavePNG(path), "failed to save %s", path)
}
