// Package postprocess - Postprocessing utilities for detector outputs.
package postprocess

import (
	"sort"

	"github.com/nvr-ai/go-eval/images"
)

// Result represents a single detection result.
type Result struct {
	// The bounding box of the result, in pixels of the original image.
	Box images.Rect
	// The confidence score of the result.
	Score float32
	// The predicted class index of the result.
	Class int
}

// SortByScore orders results by descending score. Equal scores keep their
// relative order.
func SortByScore(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
}

// GroupByClass splits results into per-class lists, preserving order within
// each class.
//
// Arguments:
//   - results: The detections to group.
//
// Returns:
//   - map[int][]Result: Detections keyed by class index. Nil input yields an empty map.
func GroupByClass(results []Result) map[int][]Result {
	grouped := make(map[int][]Result)
	for _, r := range results {
		grouped[r.Class] = append(grouped[r.Class], r)
	}
	return grouped
}
