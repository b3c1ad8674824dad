// Package detectors - ONNX Runtime and OpenCV DNN object detectors.
package detectors

import (
	"github.com/nvr-ai/go-eval/inference"
	"github.com/nvr-ai/go-eval/inference/providers"
	"github.com/nvr-ai/go-eval/models/postprocess"
	"github.com/nvr-ai/go-eval/models/yolo"
	"github.com/pkg/errors"
)

// Config represents the configuration of a YOLO detector.
type Config struct {
	// Runtime selects the inference runtime.
	Runtime inference.Runtime `json:"runtime" yaml:"runtime"`

	// ModelPath is the path of the .onnx model.
	ModelPath string `json:"model_path" yaml:"model_path"`

	// InputSize is the square model input edge in pixels.
	InputSize int `json:"input_size" yaml:"input_size"`

	// NumClasses is the number of classes the model predicts.
	NumClasses int `json:"num_classes" yaml:"num_classes"`

	// Layout is the output tensor layout of the model.
	Layout yolo.Layout `json:"layout" yaml:"layout"`

	// ConfidenceThreshold filters candidates below this score before NMS.
	ConfidenceThreshold float32 `json:"confidence_threshold" yaml:"confidence_threshold"`

	// NMS controls Non-Maximum Suppression.
	NMS postprocess.NMSConfig `json:"nms" yaml:"nms"`

	// Provider selects the execution provider.
	Provider providers.Config `json:"provider" yaml:"provider"`

	// LibraryPath is the onnxruntime shared library. Empty resolves it from the environment.
	LibraryPath string `json:"library_path" yaml:"library_path"`

	// InputName and OutputName are the graph tensor names used by onnxruntime.
	InputName  string `json:"input_name"  yaml:"input_name"`
	OutputName string `json:"output_name" yaml:"output_name"`
}

// DefaultConfig returns the configuration of a COCO YOLOv8 export at 320x320.
//
// The confidence floor is 0 so that every candidate reaches the evaluation,
// which applies its own confidence thresholds.
//
// Returns:
//   - Config: The default configuration. ModelPath must still be set.
func DefaultConfig() Config {
	return Config{
		Runtime:             inference.RuntimeONNX,
		InputSize:           320,
		NumClasses:          80,
		Layout:              yolo.LayoutV8,
		ConfidenceThreshold: 0,
		NMS: postprocess.NMSConfig{
			IoUThreshold: 0.45,
			ClassAware:   true,
		},
		Provider:   providers.DefaultConfig(),
		InputName:  "images",
		OutputName: "output0",
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.ModelPath == "" {
		return errors.New("model_path is required")
	}
	if c.InputSize <= 0 {
		return errors.Errorf("input_size must be positive, got %d", c.InputSize)
	}
	if c.NumClasses <= 0 {
		return errors.Errorf("num_classes must be positive, got %d", c.NumClasses)
	}
	if c.Layout != yolo.LayoutV8 && c.Layout != yolo.LayoutV5 {
		return errors.Errorf("unsupported output layout %q", c.Layout)
	}
	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1 {
		return errors.Errorf("confidence_threshold must be within [0, 1], got %v", c.ConfidenceThreshold)
	}
	if c.NMS.IoUThreshold <= 0 || c.NMS.IoUThreshold > 1 {
		return errors.Errorf("nms iou_threshold must be within (0, 1], got %v", c.NMS.IoUThreshold)
	}
	if _, err := inference.ParseRuntime(string(c.Runtime)); err != nil {
		return err
	}

	return errors.Wrap(c.Provider.Validate(), "invalid provider")
}

// decodeArgs returns the decoding parameters for one image.
func (c Config) decodeArgs(shape []int64, imageWidth, imageHeight int) yolo.DecodeArgs {
	return yolo.DecodeArgs{
		Layout:              c.Layout,
		Shape:               shape,
		InputWidth:          c.InputSize,
		InputHeight:         c.InputSize,
		ImageWidth:          imageWidth,
		ImageHeight:         imageHeight,
		NumClasses:          c.NumClasses,
		ConfidenceThreshold: c.ConfidenceThreshold,
	}
}
