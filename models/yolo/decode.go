// Package yolo - decodes raw YOLO output tensors into detections.
package yolo

import (
	"github.com/chewxy/math32"
	"github.com/nvr-ai/go-eval/images"
	"github.com/nvr-ai/go-eval/models/postprocess"
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// Layout identifies how a model arranges its output tensor.
type Layout string

const (
	// LayoutV8 is [1, 4+C, N]: channel-major box and class scores, no objectness
	// (YOLOv8, YOLO11).
	LayoutV8 Layout = "yolov8"
	// LayoutV5 is [1, N, 5+C]: one row per candidate with an objectness score
	// (YOLOv4, YOLOv5, YOLOv7).
	LayoutV5 Layout = "yolov5"
)

// DecodeArgs describes the tensor being decoded and the image it came from.
type DecodeArgs struct {
	Layout Layout
	// Shape of the output tensor as reported by the runtime.
	Shape []int64
	// Model input size in pixels.
	InputWidth, InputHeight int
	// Original image size in pixels; boxes are scaled back to it.
	ImageWidth, ImageHeight int
	// NumClasses, when positive, must match the class count implied by Shape.
	NumClasses int
	// Candidates scoring below this are dropped.
	ConfidenceThreshold float32
}

// Decode converts a raw output tensor into pixel-space detections, one per
// candidate, labelled with the best scoring class. No suppression is applied.
//
// Arguments:
//   - output: The flat output tensor data.
//   - args: Tensor layout and image geometry.
//
// Returns:
//   - []postprocess.Result: Candidates at or above the confidence threshold.
//   - error: An error if the shape does not match the layout or the data length.
func Decode(output []float32, args DecodeArgs) ([]postprocess.Result, error) {
	if len(args.Shape) < 2 {
		return nil, errors.Errorf("output shape %v has fewer than 2 dimensions", args.Shape)
	}
	if args.InputWidth <= 0 || args.InputHeight <= 0 {
		return nil, errors.Errorf("invalid input size %dx%d", args.InputWidth, args.InputHeight)
	}

	d0 := int(args.Shape[len(args.Shape)-2])
	d1 := int(args.Shape[len(args.Shape)-1])
	if d0*d1 != len(output) {
		return nil, errors.Errorf("output shape %v does not match %d values", args.Shape, len(output))
	}

	switch args.Layout {
	case LayoutV8:
		rows, err := candidateRows(output, d0, d1)
		if err != nil {
			return nil, err
		}
		return decodeRows(rows, d1, d0, 4, args)
	case LayoutV5:
		return decodeRows(output, d0, d1, 5, args)
	default:
		return nil, errors.Errorf("unsupported output layout %q", args.Layout)
	}
}

// candidateRows turns a channel-major [channels, n] buffer into [n, channels].
func candidateRows(output []float32, channels, n int) ([]float32, error) {
	backing := make([]float32, len(output))
	copy(backing, output)

	t := tensor.New(tensor.WithShape(channels, n), tensor.WithBacking(backing))
	if err := t.T(); err != nil {
		return nil, errors.Wrap(err, "failed to transpose output")
	}
	if err := t.Transpose(); err != nil {
		return nil, errors.Wrap(err, "failed to materialize transposed output")
	}

	rows, ok := t.Data().([]float32)
	if !ok {
		return nil, errors.New("transposed output is not float32")
	}
	return rows, nil
}

// decodeRows decodes n candidate rows of the given width. The first four values
// of a row are cx, cy, w, h in input pixels; classOffset is where class scores
// begin (5 when an objectness score sits at index 4).
func decodeRows(rows []float32, n, width, classOffset int, args DecodeArgs) ([]postprocess.Result, error) {
	numClasses := width - classOffset
	if numClasses <= 0 {
		return nil, errors.Errorf("output rows of width %d carry no class scores", width)
	}
	if args.NumClasses > 0 && args.NumClasses != numClasses {
		return nil, errors.Errorf("model outputs %d classes, expected %d", numClasses, args.NumClasses)
	}

	sx := float32(args.ImageWidth) / float32(args.InputWidth)
	sy := float32(args.ImageHeight) / float32(args.InputHeight)
	maxX := float32(args.ImageWidth)
	maxY := float32(args.ImageHeight)

	results := make([]postprocess.Result, 0, 64)
	for i := 0; i < n; i++ {
		row := rows[i*width : (i+1)*width]

		classID := 0
		score := row[classOffset]
		for c := 1; c < numClasses; c++ {
			if s := row[classOffset+c]; s > score {
				score = s
				classID = c
			}
		}
		if classOffset == 5 {
			score *= row[4]
		}
		if score < args.ConfidenceThreshold {
			continue
		}

		cx, cy, w, h := row[0], row[1], row[2], row[3]
		results = append(results, postprocess.Result{
			Box: images.Rect{
				X1: int(clamp((cx-w/2)*sx, maxX)),
				Y1: int(clamp((cy-h/2)*sy, maxY)),
				X2: int(clamp((cx+w/2)*sx, maxX)),
				Y2: int(clamp((cy+h/2)*sy, maxY)),
			},
			Score: score,
			Class: classID,
		})
	}

	return results, nil
}

func clamp(v, upper float32) float32 {
	return math32.Max(0, math32.Min(v, upper))
}
