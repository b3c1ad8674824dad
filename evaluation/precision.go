package evaluation

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// RecallBins is the number of recall intervals of the interpolated curve. The
// curve has RecallBins+1 points at recall 0, 0.1, ..., 1.0.
const RecallBins = 10

// ConfidenceThresholds returns the sweep 0.0, 0.1, ..., 1.0.
func ConfidenceThresholds() []float64 {
	t := make([]float64, 11)
	for k := range t {
		t[k] = float64(k) / 10
	}
	return t
}

// IoUThresholds returns 0.50, 0.55, ..., 0.95.
func IoUThresholds() []float64 {
	t := make([]float64, 10)
	for k := range t {
		t[k] = float64(50+5*k) / 100
	}
	return t
}

// PRPoint is one precision-recall sample of the confidence sweep.
type PRPoint struct {
	ConfidenceThreshold float64 `json:"confidence_threshold"`
	Precision           float64 `json:"precision"`
	Recall              float64 `json:"recall"`
}

// Curve is the precision-recall curve of one class at one IoU threshold.
type Curve struct {
	ClassID      int       `json:"class_id"`
	IoUThreshold float64   `json:"iou_threshold"`
	Points       []PRPoint `json:"points"`
	// Envelope holds the interpolated precision at recall k/10 for k = 0..10.
	Envelope []float64 `json:"envelope"`
	AP       float64   `json:"ap"`
}

// recallBin maps a recall onto its bin, floor(recall * 10) clamped to [0, 10].
func recallBin(recall float64) int {
	k := int(math.Floor(recall * RecallBins))
	return max(0, min(RecallBins, k))
}

// InterpolatedAP computes the 11-point interpolated average precision.
//
// Every point lands in bin floor(recall*10), which keeps the highest precision
// it receives; empty bins hold 0. Walking from bin 10 down to bin 0, each bin is
// raised to the running maximum, so bin k holds the best precision seen at any
// recall in bin k or above. AP is the mean of the 11 bins.
//
// Arguments:
//   - points: The precision-recall samples, in any order.
//
// Returns:
//   - []float64: The 11 envelope values, indexed by recall bin.
//   - float64: The average precision.
func InterpolatedAP(points []PRPoint) ([]float64, float64) {
	envelope := make([]float64, RecallBins+1)
	for _, p := range points {
		k := recallBin(p.Recall)
		envelope[k] = max(envelope[k], p.Precision)
	}

	running := 0.0
	for k := RecallBins; k >= 0; k-- {
		running = max(running, envelope[k])
		envelope[k] = running
	}

	return envelope, stat.Mean(envelope, nil)
}

// AveragePrecision sweeps the confidence thresholds for one class at one IoU
// threshold and interpolates the resulting curve.
//
// Arguments:
//   - ds: The dataset.
//   - classID: The class being scored.
//   - iouThreshold: Minimum IoU for a match.
//
// Returns:
//   - Curve: The curve and its AP.
//   - bool: False when recall is undefined at every threshold, that is the class
//     has no ground truth. The combination must then be omitted, not scored 0.
func AveragePrecision(ds *Dataset, classID int, iouThreshold float64) (Curve, bool) {
	curve := Curve{ClassID: classID, IoUThreshold: iouThreshold}

	for _, threshold := range ConfidenceThresholds() {
		counts := Match(ds, classID, threshold, iouThreshold)
		recall, ok := counts.Recall()
		if !ok {
			continue
		}
		curve.Points = append(curve.Points, PRPoint{
			ConfidenceThreshold: threshold,
			Precision:           counts.Precision(),
			Recall:              recall,
		})
	}
	if len(curve.Points) == 0 {
		return Curve{}, false
	}

	curve.Envelope, curve.AP = InterpolatedAP(curve.Points)

	return curve, true
}
