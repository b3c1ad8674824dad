package detectors

import (
	"testing"

	"github.com/nvr-ai/go-eval/images"
	"github.com/nvr-ai/go-eval/inference/providers"
	"github.com/nvr-ai/go-eval/models/yolo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	valid := DefaultConfig()
	valid.ModelPath = "yolov8n.onnx"

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "default with model", mutate: func(c *Config) {}},
		{name: "opencv runtime", mutate: func(c *Config) { c.Runtime = "opencv" }},
		{name: "missing model", mutate: func(c *Config) { c.ModelPath = "" }, wantErr: true},
		{name: "zero input", mutate: func(c *Config) { c.InputSize = 0 }, wantErr: true},
		{name: "zero classes", mutate: func(c *Config) { c.NumClasses = 0 }, wantErr: true},
		{name: "bad layout", mutate: func(c *Config) { c.Layout = "detr" }, wantErr: true},
		{name: "bad confidence", mutate: func(c *Config) { c.ConfidenceThreshold = 1.5 }, wantErr: true},
		{name: "bad nms", mutate: func(c *Config) { c.NMS.IoUThreshold = 0 }, wantErr: true},
		{name: "bad runtime", mutate: func(c *Config) { c.Runtime = "tflite" }, wantErr: true},
		{name: "bad provider", mutate: func(c *Config) { c.Provider = providers.Config{Backend: "tpu"} }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(DefaultConfig(), nil)
	assert.Error(t, err)
}

func TestFinish(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NumClasses = 2
	cfg.InputSize = 100

	// [1, 6, 3]: three candidates, two of class 0 overlapping heavily.
	output := []float32{
		50, 52, 20, // cx
		50, 50, 80, // cy
		20, 20, 10, // w
		20, 20, 10, // h
		0.9, 0.8, 0.1, // class 0
		0.1, 0.1, 0.7, // class 1
	}

	got, err := finish(cfg, output, []int64{1, 6, 3}, 200, 100)
	require.NoError(t, err)

	require.Len(t, got[0], 1)
	assert.InDelta(t, 0.9, got[0][0].Score, 1e-6)
	assert.Equal(t, images.Rect{X1: 80, Y1: 40, X2: 120, Y2: 60}, got[0][0].Box)

	require.Len(t, got[1], 1)
	assert.Equal(t, 1, got[1][0].Class)
	assert.Equal(t, images.Rect{X1: 30, Y1: 75, X2: 50, Y2: 85}, got[1][0].Box)
}

func TestFinish_ShapeMismatch(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Layout = yolo.LayoutV8

	_, err := finish(cfg, make([]float32, 10), []int64{1, 84, 8400}, 100, 100)
	assert.Error(t, err)
}
