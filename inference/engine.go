// Package inference - Detector interface consumed by the evaluation pipeline.
package inference

import (
	"context"
	"image"

	"github.com/nvr-ai/go-eval/models/postprocess"
)

// Detector runs an object detection model over a single image.
//
// Implementations are not assumed to be safe for concurrent use; the
// collection pass calls Detect sequentially.
type Detector interface {
	// Detect returns the detections of img grouped by class index.
	//
	// Arguments:
	//   - ctx: Cancels the call before inference starts.
	//   - img: The decoded image.
	//
	// Returns:
	//   - map[int][]postprocess.Result: Pixel-space boxes keyed by class index.
	//   - error: An error if preprocessing or inference fails.
	Detect(ctx context.Context, img image.Image) (map[int][]postprocess.Result, error)

	// Close releases the model and runtime resources.
	Close() error
}

// DetectorFunc adapts a plain function to the Detector interface.
type DetectorFunc func(ctx context.Context, img image.Image) (map[int][]postprocess.Result, error)

// Detect calls f(ctx, img).
func (f DetectorFunc) Detect(ctx context.Context, img image.Image) (map[int][]postprocess.Result, error) {
	return f(ctx, img)
}

// Close is a no-op.
func (f DetectorFunc) Close() error {
	return nil
}
