package detectors

import (
	"context"
	"image"
	"sync"

	"github.com/nvr-ai/go-eval/inference"
	"github.com/nvr-ai/go-eval/models/postprocess"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ONNXDetector runs a YOLO model with onnxruntime.
type ONNXDetector struct {
	cfg     Config
	session *inference.Session
	logger  *zap.Logger
	mu      sync.Mutex
}

// NewONNXDetector loads the model into an onnxruntime session on the configured
// execution provider.
//
// Arguments:
//   - cfg: The detector configuration.
//   - logger: The logger.
//
// Returns:
//   - *ONNXDetector: The detector.
//   - error: An error if the session cannot be created.
func NewONNXDetector(cfg Config, logger *zap.Logger) (*ONNXDetector, error) {
	session, err := inference.NewSession(inference.SessionArgs{
		ModelPath:   cfg.ModelPath,
		LibraryPath: cfg.LibraryPath,
		InputName:   cfg.InputName,
		OutputName:  cfg.OutputName,
		InputWidth:  cfg.InputSize,
		InputHeight: cfg.InputSize,
		Provider:    cfg.Provider,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("onnxruntime detector ready",
		zap.String("model", cfg.ModelPath),
		zap.Int("input_size", cfg.InputSize),
		zap.Stringer("provider", cfg.Provider),
		zap.String("layout", string(cfg.Layout)),
	)

	return &ONNXDetector{cfg: cfg, session: session, logger: logger}, nil
}

// Detect runs inference on the provided image.
func (d *ONNXDetector) Detect(ctx context.Context, img image.Image) (map[int][]postprocess.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.session == nil {
		return nil, errors.New("detector is closed")
	}

	if err := inference.PrepareInput(img, d.cfg.InputSize, d.cfg.InputSize, d.session.Input()); err != nil {
		return nil, errors.Wrap(err, "failed to prepare input")
	}

	output, shape, err := d.session.Run()
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	return finish(d.cfg, output, shape, b.Dx(), b.Dy())
}

// Close releases the session.
func (d *ONNXDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.session == nil {
		return nil
	}
	err := d.session.Close()
	d.session = nil
	d.logger.Debug("onnxruntime detector closed")

	return err
}
