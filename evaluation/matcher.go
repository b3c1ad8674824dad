// Package evaluation - Greedy detection matching, precision-recall curves and mAP.
package evaluation

import (
	"github.com/nvr-ai/go-eval/dataset"
	"github.com/nvr-ai/go-eval/images"
	"github.com/pkg/errors"
)

// ErrUnsortedDetections is returned by NewDataset when a record's detections
// are not in descending confidence order.
var ErrUnsortedDetections = errors.New("detections are not sorted by descending confidence")

// Dataset is the immutable, validated input of an evaluation.
type Dataset struct {
	records []dataset.ImageRecord
}

// NewDataset validates records for matching.
//
// Arguments:
//   - records: One record per image. Each record's detections must be sorted by
//     descending confidence, which dataset.NewImageRecord guarantees.
//
// Returns:
//   - *Dataset: The dataset.
//   - error: ErrUnsortedDetections, wrapped with the offending image id.
func NewDataset(records []dataset.ImageRecord) (*Dataset, error) {
	for _, r := range records {
		if !dataset.DetectionsSorted(r.Detections) {
			return nil, errors.Wrapf(ErrUnsortedDetections, "image %s", r.ID)
		}
	}

	owned := make([]dataset.ImageRecord, len(records))
	copy(owned, records)

	return &Dataset{records: owned}, nil
}

// Len returns the number of images.
func (d *Dataset) Len() int {
	return len(d.records)
}

// Records returns the records. Callers must not modify them.
func (d *Dataset) Records() []dataset.ImageRecord {
	return d.records
}

// PossiblePositives returns the number of ground truth boxes of a class.
func (d *Dataset) PossiblePositives(classID int) int {
	n := 0
	for _, r := range d.records {
		n += r.CountClass(classID)
	}
	return n
}

// Counts are the matching totals for one class at one confidence and IoU threshold.
type Counts struct {
	TruePositives     int `json:"tp"`
	FalsePositives    int `json:"fp"`
	PossiblePositives int `json:"possible_positives"`
}

// Add returns the element-wise sum of c and o.
func (c Counts) Add(o Counts) Counts {
	return Counts{
		TruePositives:     c.TruePositives + o.TruePositives,
		FalsePositives:    c.FalsePositives + o.FalsePositives,
		PossiblePositives: c.PossiblePositives + o.PossiblePositives,
	}
}

// Precision returns TP / (TP + FP), or 0 when there are no positive predictions.
func (c Counts) Precision() float64 {
	if c.TruePositives+c.FalsePositives == 0 {
		return 0
	}
	return float64(c.TruePositives) / float64(c.TruePositives+c.FalsePositives)
}

// Recall returns TP / possible positives. The boolean is false when the class
// has no ground truth, in which case recall is undefined.
func (c Counts) Recall() (float64, bool) {
	if c.PossiblePositives == 0 {
		return 0, false
	}
	return float64(c.TruePositives) / float64(c.PossiblePositives), true
}

type truthState uint8

const (
	truthUnassigned truthState = iota
	truthMatched
	truthExcluded
)

type predictionState uint8

const (
	predictionFalsePositive predictionState = iota
	predictionTruePositive
	predictionExcluded
)

// MatchImage greedily matches one image's predictions of a class to its ground truth.
//
// Predictions are visited in stored order, highest confidence first. A
// prediction below confidenceThreshold or of another class is excluded. Any
// other prediction claims the unassigned ground truth of the class with the
// highest IoU, provided that IoU reaches iouThreshold; on equal IoU the earlier
// ground truth wins. A prediction that claims nothing is a false positive.
//
// Arguments:
//   - record: The image. Its detections must be sorted by descending confidence.
//   - classID: The class being scored.
//   - confidenceThreshold: Predictions below this are ignored.
//   - iouThreshold: Minimum IoU for a match.
//
// Returns:
//   - Counts: TP and FP of the image, and its ground truth count for the class.
func MatchImage(record dataset.ImageRecord, classID int, confidenceThreshold, iouThreshold float64) Counts {
	counts := Counts{PossiblePositives: record.CountClass(classID)}
	if len(record.Detections) == 0 {
		return counts
	}

	truths := make([]truthState, len(record.Annotations))
	for i, a := range record.Annotations {
		if a.ClassID != classID {
			truths[i] = truthExcluded
		}
	}

	predictions := make([]predictionState, len(record.Detections))
	for pi, p := range record.Detections {
		if p.Confidence < confidenceThreshold || p.ClassID != classID {
			predictions[pi] = predictionExcluded
			continue
		}

		best := -1
		bestIoU := -1.0
		for ti, a := range record.Annotations {
			if truths[ti] != truthUnassigned {
				continue
			}
			iou := images.CalculateIoU(p.Box, a.Box)
			if iou >= iouThreshold && iou > bestIoU {
				best = ti
				bestIoU = iou
			}
		}

		if best >= 0 {
			truths[best] = truthMatched
			predictions[pi] = predictionTruePositive
		}
	}

	for _, s := range predictions {
		switch s {
		case predictionTruePositive:
			counts.TruePositives++
		case predictionFalsePositive:
			counts.FalsePositives++
		}
	}

	return counts
}

// Match sums MatchImage over every image of the dataset.
func Match(ds *Dataset, classID int, confidenceThreshold, iouThreshold float64) Counts {
	var total Counts
	for _, r := range ds.records {
		total = total.Add(MatchImage(r, classID, confidenceThreshold, iouThreshold))
	}
	return total
}
