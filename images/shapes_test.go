package images

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestIoU_Correctness validates the IoU implementation against known test cases.
func TestIoU_Correctness(t *testing.T) {
	tests := []struct {
		name     string
		a        Box
		b        Box
		expected float64
	}{
		{
			name:     "Identical boxes",
			a:        Box{0, 0, 100, 100},
			b:        Box{0, 0, 100, 100},
			expected: 1.0,
		},
		{
			name:     "Identical normalized boxes",
			a:        Box{0.1, 0.2, 0.5, 0.9},
			b:        Box{0.1, 0.2, 0.5, 0.9},
			expected: 1.0,
		},
		{
			name:     "No overlap",
			a:        Box{0, 0, 100, 100},
			b:        Box{200, 200, 300, 300},
			expected: 0.0,
		},
		{
			name:     "Touching edges",
			a:        Box{0, 0, 100, 100},
			b:        Box{100, 0, 200, 100},
			expected: 0.0,
		},
		{
			name:     "Overlap on x only",
			a:        Box{0, 0, 100, 100},
			b:        Box{50, 150, 150, 250},
			expected: 0.0,
		},
		{
			name:     "Half overlap",
			a:        Box{0, 0, 100, 100},
			b:        Box{50, 50, 150, 150},
			expected: 2500.0 / 17500.0, // intersection=2500, union=10000+10000-2500
		},
		{
			name:     "Small overlap",
			a:        Box{0, 0, 100, 100},
			b:        Box{90, 90, 190, 190},
			expected: 100.0 / 19900.0,
		},
		{
			name:     "One inside other",
			a:        Box{0, 0, 100, 100},
			b:        Box{25, 25, 75, 75},
			expected: 0.25,
		},
		{
			name:     "Degenerate against itself",
			a:        Box{0.5, 0.5, 0.5, 0.5},
			b:        Box{0.5, 0.5, 0.5, 0.5},
			expected: 0.0,
		},
		{
			name:     "Zero width inside other",
			a:        Box{0, 0, 100, 100},
			b:        Box{50, 10, 50, 90},
			expected: 0.0,
		},
		{
			name:     "Inverted box",
			a:        Box{100, 100, 0, 0},
			b:        Box{0, 0, 100, 100},
			expected: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculateIoU(tt.a, tt.b)
			assert.InDelta(t, tt.expected, result, 1e-9)

			// IoU(A, B) must equal IoU(B, A).
			assert.Equal(t, result, CalculateIoU(tt.b, tt.a), "IoU not symmetric")
		})
	}
}

// TestIoU_vs_ImageRectangle compares the pixel path against image.Rectangle.
func TestIoU_vs_ImageRectangle(t *testing.T) {
	testCases := []struct {
		name string
		r1   Rect
		r2   Rect
	}{
		{"No overlap", Rect{0, 0, 100, 100}, Rect{200, 200, 300, 300}},
		{"Partial overlap", Rect{0, 0, 100, 100}, Rect{50, 50, 150, 150}},
		{"Full overlap", Rect{50, 50, 150, 150}, Rect{50, 50, 150, 150}},
		{"One inside other", Rect{0, 0, 100, 100}, Rect{25, 25, 75, 75}},
		{"Large boxes", Rect{0, 0, 1920, 1080}, Rect{960, 540, 1920, 1080}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ir1 := image.Rect(tc.r1.X1, tc.r1.Y1, tc.r1.X2, tc.r1.Y2)
			ir2 := image.Rect(tc.r2.X1, tc.r2.Y1, tc.r2.X2, tc.r2.Y2)

			assert.InDelta(t, imageRectangleIoU(ir1, ir2), tc.r1.IoU(tc.r2), 1e-9)
		})
	}
}

func imageRectangleIoU(r1, r2 image.Rectangle) float64 {
	intersect := r1.Intersect(r2)
	if intersect.Empty() {
		return 0
	}

	intersectArea := intersect.Dx() * intersect.Dy()
	union := r1.Dx()*r1.Dy() + r2.Dx()*r2.Dy() - intersectArea

	return float64(intersectArea) / float64(union)
}

// TestIoU_EdgeCases checks that odd inputs stay within [0, 1].
func TestIoU_EdgeCases(t *testing.T) {
	tests := []struct {
		name string
		a    Box
		b    Box
	}{
		{"Zero area box 1", Box{0, 0, 0, 0}, Box{0, 0, 100, 100}},
		{"Both zero area", Box{0, 0, 0, 0}, Box{10, 10, 10, 10}},
		{"Negative coordinates", Box{-100, -100, 0, 0}, Box{-50, -50, 50, 50}},
		{"Very large coordinates", Box{0, 0, 999999, 999999}, Box{500000, 500000, 999999, 999999}},
		{"Tiny normalized boxes", Box{0.1, 0.1, 0.1000001, 0.1000001}, Box{0.1, 0.1, 0.1000002, 0.1000002}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculateIoU(tt.a, tt.b)
			assert.GreaterOrEqual(t, result, 0.0)
			assert.LessOrEqual(t, result, 1.0)
		})
	}
}

func TestRect_Normalize(t *testing.T) {
	r := Rect{X1: 32, Y1: 24, X2: 320, Y2: 240}

	b := r.Normalize(640, 480)

	assert.Equal(t, Box{XMin: 0.05, YMin: 0.05, XMax: 0.5, YMax: 0.5}, b)
	assert.False(t, b.Degenerate())
	assert.InDelta(t, 0.2025, b.Area(), 1e-12)
}

func TestBox_Degenerate(t *testing.T) {
	assert.True(t, Box{XMin: 1, YMin: 0, XMax: 1, YMax: 2}.Degenerate())
	assert.True(t, Box{XMin: 2, YMin: 0, XMax: 1, YMax: 2}.Degenerate())
	assert.Equal(t, 0.0, Box{XMin: 2, YMin: 0, XMax: 1, YMax: 2}.Area())
	assert.False(t, Box{XMin: 0, YMin: 0, XMax: 1, YMax: 2}.Degenerate())
}
