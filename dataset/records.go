// Package dataset - Detections, ground truth and the collection pass that pairs them per image.
package dataset

import (
	"sort"

	"github.com/nvr-ai/go-eval/images"
	"github.com/nvr-ai/go-eval/models/postprocess"
)

// Detection is a single prediction with a box normalized to the image size.
type Detection struct {
	Confidence float64    `json:"confidence"`
	ClassID    int        `json:"class_id"`
	Box        images.Box `json:"box"`
}

// Annotation is a single ground truth object with a normalized box.
type Annotation struct {
	ClassID int        `json:"class_id"`
	Box     images.Box `json:"box"`
}

// ImageRecord pairs the detections and the ground truth of one image.
//
// Detections are ordered by descending confidence. Records are read-only once
// built and may be shared between goroutines.
type ImageRecord struct {
	ID          string       `json:"id"`
	Width       int          `json:"width"`
	Height      int          `json:"height"`
	Detections  []Detection  `json:"detections"`
	Annotations []Annotation `json:"annotations"`
}

// NewImageRecord builds a record from copies of the given slices, ordering the
// detections by descending confidence. Equal confidences keep their input order.
//
// Arguments:
//   - id: The image identifier, typically the file name.
//   - width: The image width in pixels.
//   - height: The image height in pixels.
//   - detections: The predictions for the image.
//   - annotations: The ground truth for the image.
//
// Returns:
//   - ImageRecord: The record.
func NewImageRecord(id string, width, height int, detections []Detection, annotations []Annotation) ImageRecord {
	d := make([]Detection, len(detections))
	copy(d, detections)
	SortDetections(d)

	a := make([]Annotation, len(annotations))
	copy(a, annotations)

	return ImageRecord{
		ID:          id,
		Width:       width,
		Height:      height,
		Detections:  d,
		Annotations: a,
	}
}

// SortDetections orders detections by descending confidence in place. The sort
// is stable.
func SortDetections(detections []Detection) {
	sort.SliceStable(detections, func(i, j int) bool {
		return detections[i].Confidence > detections[j].Confidence
	})
}

// DetectionsSorted reports whether detections are in descending confidence order.
func DetectionsSorted(detections []Detection) bool {
	for i := 1; i < len(detections); i++ {
		if detections[i].Confidence > detections[i-1].Confidence {
			return false
		}
	}
	return true
}

// CountClass returns the number of annotations of the given class.
func (r ImageRecord) CountClass(classID int) int {
	n := 0
	for _, a := range r.Annotations {
		if a.ClassID == classID {
			n++
		}
	}
	return n
}

// FromResults converts detector output into normalized detections.
//
// Classes are visited in ascending order and each class's results by
// descending score, so a later stable sort by confidence keeps ties in a
// deterministic order.
//
// Arguments:
//   - results: Pixel-space results keyed by class index.
//   - width: The image width used for normalization.
//   - height: The image height used for normalization.
//
// Returns:
//   - []Detection: The normalized detections.
func FromResults(results map[int][]postprocess.Result, width, height int) []Detection {
	classes := make([]int, 0, len(results))
	total := 0
	for class, r := range results {
		classes = append(classes, class)
		total += len(r)
	}
	sort.Ints(classes)

	detections := make([]Detection, 0, total)
	for _, class := range classes {
		byScore := make([]postprocess.Result, len(results[class]))
		copy(byScore, results[class])
		postprocess.SortByScore(byScore)

		for _, r := range byScore {
			detections = append(detections, Detection{
				Confidence: float64(r.Score),
				ClassID:    class,
				Box:        r.Box.Normalize(width, height),
			})
		}
	}

	return detections
}
