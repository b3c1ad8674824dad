// Package postprocess - provides Non-Maximum Suppression for detection results.
package postprocess

// NMSConfig defines parameters for Non-Maximum Suppression.
type NMSConfig struct {
	IoUThreshold float64 `json:"iouThreshold" yaml:"iou_threshold"` // Overlap threshold for suppression.
	ClassAware   bool    `json:"classAware"   yaml:"class_aware"`   // If true, suppress only within same class.
}

// ApplyGreedyNMS performs standard greedy Non-Maximum Suppression.
//
// The input is sorted by descending score first, so the most confident box of
// every overlapping cluster survives.
//
// Arguments:
//   - detections: Slice of detections. It is reordered in place.
//   - config: NMS configuration.
//
// Returns:
//   - Filtered slice of detections, ordered by descending score. If no detections
//     are provided, returns nil.
func ApplyGreedyNMS(detections []Result, config NMSConfig) []Result {
	n := len(detections)
	if n == 0 {
		return nil
	}
	SortByScore(detections)

	filtered := make([]Result, 0, n)
	used := make([]bool, n)

	for i := 0; i < n; i++ {
		if used[i] {
			continue
		}

		anchor := detections[i]
		filtered = append(filtered, anchor)
		used[i] = true

		for j := i + 1; j < n; j++ {
			if used[j] {
				continue
			}
			if config.ClassAware && anchor.Class != detections[j].Class {
				continue
			}

			// Suppress if IoU exceeds threshold
			if anchor.Box.IoU(detections[j].Box) > config.IoUThreshold {
				used[j] = true
			}
		}
	}

	return filtered
}
