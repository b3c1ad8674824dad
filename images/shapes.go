// Package images - Image geometry, decoding, resizing and drawing utilities.
package images

import "fmt"

// Rect is a bounding box in integer pixel coordinates, as reported by a detector.
type Rect struct {
	X1, Y1, X2, Y2 int
}

// Box is a bounding box in floating point coordinates.
//
// Boxes compared with each other must share a coordinate frame: both normalized
// to [0,1] by the image size, or both in pixel space.
type Box struct {
	XMin float64 `json:"xmin" yaml:"xmin"`
	YMin float64 `json:"ymin" yaml:"ymin"`
	XMax float64 `json:"xmax" yaml:"xmax"`
	YMax float64 `json:"ymax" yaml:"ymax"`
}

// Width returns the horizontal extent of the box, or 0 when the box is inverted.
func (b Box) Width() float64 {
	return max(0, b.XMax-b.XMin)
}

// Height returns the vertical extent of the box, or 0 when the box is inverted.
func (b Box) Height() float64 {
	return max(0, b.YMax-b.YMin)
}

// Area returns the area of the box. Degenerate boxes have zero area.
func (b Box) Area() float64 {
	return b.Width() * b.Height()
}

// Degenerate reports whether the box has zero or negative extent on either axis.
func (b Box) Degenerate() bool {
	return b.XMax <= b.XMin || b.YMax <= b.YMin
}

func (b Box) String() string {
	return fmt.Sprintf("(%.4f, %.4f)-(%.4f, %.4f)", b.XMin, b.YMin, b.XMax, b.YMax)
}

// Normalize converts a pixel rectangle into a box relative to the image size.
//
// Arguments:
//   - width: The width of the source image in pixels.
//   - height: The height of the source image in pixels.
//
// Returns:
//   - Box: The rectangle with x coordinates divided by width and y coordinates by height.
func (r Rect) Normalize(width, height int) Box {
	w, h := float64(width), float64(height)
	return Box{
		XMin: float64(r.X1) / w,
		YMin: float64(r.Y1) / h,
		XMax: float64(r.X2) / w,
		YMax: float64(r.Y2) / h,
	}
}

// Box returns the rectangle as a Box in pixel space.
func (r Rect) Box() Box {
	return Box{XMin: float64(r.X1), YMin: float64(r.Y1), XMax: float64(r.X2), YMax: float64(r.Y2)}
}

// IoU returns the Intersection over Union of two pixel rectangles.
func (r Rect) IoU(o Rect) float64 {
	return CalculateIoU(r.Box(), o.Box())
}

// CalculateIoU computes the Intersection over Union of two boxes.
//
// IoU = Area of Intersection / Area of Union, a value in [0, 1] where 1 means the
// boxes are identical and 0 means they do not overlap.
//
// The intersection is bounded by the maximum of the two left/top edges and the
// minimum of the two right/bottom edges. If the resulting width or height is zero
// or negative the boxes do not overlap and 0 is returned immediately. The union
// follows inclusion-exclusion:
//
//	Area(Union) = Area(A) + Area(B) - Area(Intersection)
//
// Degenerate boxes (zero width or height) never intersect anything, so their IoU
// is 0 against every box, including an identical degenerate box. A non-positive
// union is treated the same way; the function never returns NaN.
//
// Arguments:
//   - a: The first box.
//   - b: The second box, in the same coordinate frame as a.
//
// Returns:
//   - float64: The IoU score in [0, 1].
//
// Example Usage:
// ```go
//
//	a := Box{XMin: 0, YMin: 0, XMax: 10, YMax: 10}
//	b := Box{XMin: 5, YMin: 5, XMax: 15, YMax: 15}
//	iou := CalculateIoU(a, b) // 25 / 175 = 0.142857
//
// ```
func CalculateIoU(a, b Box) float64 {
	w := min(a.XMax, b.XMax) - max(a.XMin, b.XMin)
	h := min(a.YMax, b.YMax) - max(a.YMin, b.YMin)
	if w <= 0 || h <= 0 {
		return 0
	}
	intersection := w * h

	union := a.Area() + b.Area() - intersection
	if union <= 0 {
		return 0
	}

	return intersection / union
}
