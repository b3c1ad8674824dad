package inference

import "github.com/pkg/errors"

// Runtime is the inference runtime backing a Detector.
type Runtime string

const (
	// RuntimeONNX runs the model with the onnxruntime library.
	RuntimeONNX Runtime = "onnxruntime"
	// RuntimeOpenCV runs the model with the OpenCV DNN module.
	RuntimeOpenCV Runtime = "opencv"
)

// Runtimes is a list of all supported runtimes.
var Runtimes = []Runtime{RuntimeONNX, RuntimeOpenCV}

// ParseRuntime validates a runtime name. An empty name selects RuntimeONNX.
func ParseRuntime(name string) (Runtime, error) {
	if name == "" {
		return RuntimeONNX, nil
	}
	for _, r := range Runtimes {
		if string(r) == name {
			return r, nil
		}
	}

	return "", errors.Errorf("unsupported runtime %q", name)
}
