package detectors

import (
	"github.com/nvr-ai/go-eval/inference"
	"github.com/nvr-ai/go-eval/models/postprocess"
	"github.com/nvr-ai/go-eval/models/yolo"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// New creates the detector selected by cfg.Runtime.
//
// Arguments:
//   - cfg: The detector configuration.
//   - logger: The logger. Nil disables logging.
//
// Returns:
//   - inference.Detector: The detector. The caller must Close it.
//   - error: An error if the configuration is invalid or the model fails to load.
func New(cfg Config, logger *zap.Logger) (inference.Detector, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid detector config")
	}

	runtime, _ := inference.ParseRuntime(string(cfg.Runtime))
	switch runtime {
	case inference.RuntimeOpenCV:
		return NewDNNDetector(cfg, logger)
	default:
		return NewONNXDetector(cfg, logger)
	}
}

// finish decodes a raw output tensor, suppresses overlapping candidates and
// groups the survivors by class.
func finish(cfg Config, output []float32, shape []int64, imageWidth, imageHeight int) (map[int][]postprocess.Result, error) {
	candidates, err := yolo.Decode(output, cfg.decodeArgs(shape, imageWidth, imageHeight))
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode output")
	}

	return postprocess.GroupByClass(postprocess.ApplyGreedyNMS(candidates, cfg.NMS)), nil
}
