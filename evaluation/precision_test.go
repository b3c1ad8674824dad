package evaluation

import (
	"testing"

	"github.com/nvr-ai/go-eval/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThresholds(t *testing.T) {
	conf := ConfidenceThresholds()
	require.Len(t, conf, 11)
	assert.Equal(t, 0.0, conf[0])
	assert.Equal(t, 0.3, conf[3])
	assert.Equal(t, 1.0, conf[10])

	iou := IoUThresholds()
	require.Len(t, iou, 10)
	assert.Equal(t, 0.5, iou[0])
	assert.Equal(t, 0.7, iou[4])
	assert.Equal(t, 0.95, iou[9])
}

func TestRecallBin(t *testing.T) {
	assert.Equal(t, 0, recallBin(0))
	assert.Equal(t, 0, recallBin(0.09))
	assert.Equal(t, 3, recallBin(1.0/3))
	assert.Equal(t, 6, recallBin(2.0/3))
	assert.Equal(t, 10, recallBin(1))
	assert.Equal(t, 10, recallBin(1.5))
	assert.Equal(t, 0, recallBin(-0.1))
}

func TestInterpolatedAP_MonotoneCurveEqualsMean(t *testing.T) {
	points := make([]PRPoint, 11)
	sum := 0.0
	for k := range points {
		p := 1 - float64(k)/20
		points[k] = PRPoint{Precision: p, Recall: float64(k) / 10}
		sum += p
	}

	envelope, ap := InterpolatedAP(points)

	for k, p := range points {
		assert.Equal(t, p.Precision, envelope[k], "bin %d", k)
	}
	assert.InDelta(t, sum/11, ap, 1e-12)
}

func TestInterpolatedAP_Envelope(t *testing.T) {
	points := []PRPoint{
		{Recall: 0.2, Precision: 0.5},
		{Recall: 0.6, Precision: 0.8},
		{Recall: 0.65, Precision: 0.7},
		{Recall: 1.0, Precision: 0.3},
	}

	envelope, ap := InterpolatedAP(points)

	assert.Equal(t, []float64{0.8, 0.8, 0.8, 0.8, 0.8, 0.8, 0.8, 0.3, 0.3, 0.3, 0.3}, envelope)
	assert.InDelta(t, 6.8/11, ap, 1e-12)
}

func TestInterpolatedAP_Empty(t *testing.T) {
	envelope, ap := InterpolatedAP(nil)

	assert.Len(t, envelope, 11)
	assert.Equal(t, 0.0, ap)
}

func TestAveragePrecision_AbsentClassSkipped(t *testing.T) {
	ds := mustDataset(t, dataset.NewImageRecord("a", 10, 10,
		[]dataset.Detection{{Confidence: 0.9, ClassID: 4, Box: box(0, 0, 1, 1)}},
		[]dataset.Annotation{{ClassID: 0, Box: box(0, 0, 1, 1)}},
	))

	_, ok := AveragePrecision(ds, 4, 0.5)
	assert.False(t, ok)

	curve, ok := AveragePrecision(ds, 0, 0.5)
	require.True(t, ok)
	assert.Equal(t, 0.0, curve.AP)
	assert.Len(t, curve.Points, 11)
}

func TestAveragePrecision_Curve(t *testing.T) {
	ds := twoClassDataset(t)

	curve, ok := AveragePrecision(ds, 0, 0.5)
	require.True(t, ok)

	assert.Equal(t, 0, curve.ClassID)
	assert.Equal(t, 0.5, curve.IoUThreshold)
	require.Len(t, curve.Points, 11)
	for _, p := range curve.Points[:8] {
		assert.Equal(t, 1.0, p.Precision, "threshold %v", p.ConfidenceThreshold)
		assert.InDelta(t, 2.0/3, p.Recall, 1e-12, "threshold %v", p.ConfidenceThreshold)
	}
	for _, p := range curve.Points[8:10] {
		assert.Equal(t, 1.0, p.Precision, "threshold %v", p.ConfidenceThreshold)
		assert.InDelta(t, 1.0/3, p.Recall, 1e-12, "threshold %v", p.ConfidenceThreshold)
	}
	assert.Equal(t, PRPoint{ConfidenceThreshold: 1, Precision: 0, Recall: 0}, curve.Points[10])
	assert.InDelta(t, 7.0/11, curve.AP, 1e-12)
}
