package providers

import (
	"github.com/pkg/errors"
	ort "github.com/yalue/onnxruntime_go"
)

// NewSessionOptions creates ONNX Runtime session options with the configured
// execution provider appended.
//
// The caller owns the returned options and must Destroy them once the session
// has been created.
//
// Arguments:
//   - c: The provider configuration.
//
// Returns:
//   - *ort.SessionOptions: The session options.
//   - error: An error if the options could not be created or the provider is unavailable.
func NewSessionOptions(c Config) (*ort.SessionOptions, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		return nil, errors.Wrap(err, "error creating ORT session options")
	}

	if err := c.apply(options); err != nil {
		options.Destroy()
		return nil, err
	}

	return options, nil
}

func (c Config) apply(options *ort.SessionOptions) error {
	if err := options.SetGraphOptimizationLevel(ort.GraphOptimizationLevelEnableExtended); err != nil {
		return errors.Wrap(err, "error setting graph optimization level")
	}
	if c.IntraOpThreads > 0 {
		if err := options.SetIntraOpNumThreads(c.IntraOpThreads); err != nil {
			return errors.Wrap(err, "error setting intra-op threads")
		}
	}

	switch c.Backend {
	case "", CPU:
		return nil
	case CUDA:
		return appendCUDA(options, c.DeviceID)
	case CoreML:
		return appendCoreML(options)
	case OpenVINO:
		return appendOpenVINO(options, c.DeviceID)
	default:
		return errors.Errorf("unsupported execution provider %q", c.Backend)
	}
}
