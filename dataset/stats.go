package dataset

import (
	"time"

	"go.uber.org/zap/zapcore"
)

// PassStats summarizes a collection pass.
type PassStats struct {
	Started         time.Time     `json:"started"`
	Elapsed         time.Duration `json:"elapsed"`
	ImagesSeen      int           `json:"images_seen"`
	ImagesEvaluated int           `json:"images_evaluated"`
	ImagesSkipped   int           `json:"images_skipped"`
	Detections      int           `json:"detections"`
	Annotations     int           `json:"annotations"`
	InferenceTime   time.Duration `json:"inference_time"`
}

// AverageInference returns the mean detector latency per evaluated image.
func (s PassStats) AverageInference() time.Duration {
	if s.ImagesEvaluated == 0 {
		return 0
	}
	return s.InferenceTime / time.Duration(s.ImagesEvaluated)
}

// FramesPerSecond returns the detector throughput, or 0 before any inference.
func (s PassStats) FramesPerSecond() float64 {
	if s.InferenceTime <= 0 {
		return 0
	}
	return float64(s.ImagesEvaluated) / s.InferenceTime.Seconds()
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (s PassStats) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddInt("images_seen", s.ImagesSeen)
	enc.AddInt("images_evaluated", s.ImagesEvaluated)
	enc.AddInt("images_skipped", s.ImagesSkipped)
	enc.AddInt("detections", s.Detections)
	enc.AddInt("annotations", s.Annotations)
	enc.AddDuration("inference_time", s.InferenceTime)
	enc.AddDuration("avg_inference", s.AverageInference())
	enc.AddDuration("elapsed", s.Elapsed)
	return nil
}
