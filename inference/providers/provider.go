// Package providers - Execution provider selection for ONNX Runtime sessions.
package providers

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Backend names an ONNX Runtime execution provider.
type Backend string

const (
	// CPU runs inference on the default CPU execution provider.
	CPU Backend = "cpu"
	// CUDA runs inference on an NVIDIA GPU selected by Config.DeviceID.
	CUDA Backend = "cuda"
	// CoreML uses Apple CoreML for macOS acceleration.
	CoreML Backend = "coreml"
	// OpenVINO uses Intel OpenVINO.
	OpenVINO Backend = "openvino"
)

// Backends lists every supported backend.
var Backends = []Backend{CPU, CUDA, CoreML, OpenVINO}

// Config selects the execution provider a detector runs on.
//
// The selection is passed explicitly to the detector constructor; nothing here
// reads or writes process environment variables.
type Config struct {
	// Backend specifies the execution provider. Empty means CPU.
	Backend Backend `json:"backend" yaml:"backend"`
	// DeviceID is the accelerator index, used by CUDA and OpenVINO.
	DeviceID int `json:"device_id" yaml:"device_id"`
	// IntraOpThreads bounds the threads used inside a single operator. 0 lets the runtime decide.
	IntraOpThreads int `json:"intra_op_threads" yaml:"intra_op_threads"`
}

// DefaultConfig returns a CPU configuration.
func DefaultConfig() Config {
	return Config{Backend: CPU}
}

// FromGPU builds a Config from a GPU device flag.
//
// Arguments:
//   - gpu: A CUDA device index such as "0" or "1". An empty string selects the CPU.
//
// Returns:
//   - Config: The provider configuration.
//   - error: An error if gpu is not a non-negative integer.
func FromGPU(gpu string) (Config, error) {
	gpu = strings.TrimSpace(gpu)
	if gpu == "" {
		return DefaultConfig(), nil
	}

	id, err := strconv.Atoi(gpu)
	if err != nil {
		return Config{}, errors.Wrapf(err, "invalid gpu device %q", gpu)
	}
	if id < 0 {
		return Config{}, errors.Errorf("invalid gpu device %q: must not be negative", gpu)
	}

	return Config{Backend: CUDA, DeviceID: id}, nil
}

// Validate checks that the backend is known and the device index is usable.
func (c Config) Validate() error {
	if c.DeviceID < 0 {
		return errors.Errorf("device_id must not be negative, got %d", c.DeviceID)
	}
	if c.IntraOpThreads < 0 {
		return errors.Errorf("intra_op_threads must not be negative, got %d", c.IntraOpThreads)
	}
	if c.Backend == "" {
		return nil
	}
	for _, b := range Backends {
		if c.Backend == b {
			return nil
		}
	}

	return errors.Errorf("unsupported execution provider %q", c.Backend)
}

// Accelerated reports whether the configuration targets something other than the CPU.
func (c Config) Accelerated() bool {
	return c.Backend != "" && c.Backend != CPU
}

func (c Config) String() string {
	switch c.Backend {
	case "", CPU:
		return string(CPU)
	case CUDA, OpenVINO:
		return string(c.Backend) + ":" + strconv.Itoa(c.DeviceID)
	default:
		return string(c.Backend)
	}
}
