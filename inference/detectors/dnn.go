package detectors

import (
	"context"
	"image"
	"sync"

	"github.com/nvr-ai/go-eval/inference/providers"
	"github.com/nvr-ai/go-eval/models/postprocess"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gocv.io/x/gocv"
)

// DNNDetector runs a YOLO model with the OpenCV DNN module.
type DNNDetector struct {
	cfg    Config
	net    gocv.Net
	logger *zap.Logger
	mu     sync.Mutex
	closed bool
}

// NewDNNDetector loads the model with gocv.ReadNetFromONNX.
//
// A CUDA provider selects the OpenCV CUDA backend. OpenCV picks the CUDA device
// itself, so a non-zero DeviceID is only reported. Every other provider runs on
// the OpenCV CPU backend.
//
// Arguments:
//   - cfg: The detector configuration.
//   - logger: The logger.
//
// Returns:
//   - *DNNDetector: The detector.
//   - error: An error if the model cannot be read.
func NewDNNDetector(cfg Config, logger *zap.Logger) (*DNNDetector, error) {
	net := gocv.ReadNetFromONNX(cfg.ModelPath)
	if net.Empty() {
		return nil, errors.Errorf("error reading network model from %s", cfg.ModelPath)
	}

	switch cfg.Provider.Backend {
	case providers.CUDA:
		net.SetPreferableBackend(gocv.NetBackendCUDA)
		net.SetPreferableTarget(gocv.NetTargetCUDA)
		if cfg.Provider.DeviceID != 0 {
			logger.Warn("opencv runtime ignores the configured cuda device",
				zap.Int("device_id", cfg.Provider.DeviceID))
		}
	default:
		net.SetPreferableBackend(gocv.NetBackendOpenCV)
		net.SetPreferableTarget(gocv.NetTargetCPU)
	}

	logger.Info("opencv detector ready",
		zap.String("model", cfg.ModelPath),
		zap.Int("input_size", cfg.InputSize),
		zap.Stringer("provider", cfg.Provider),
		zap.String("layout", string(cfg.Layout)),
	)

	return &DNNDetector{cfg: cfg, net: net, logger: logger}, nil
}

// Detect runs inference on the provided image.
func (d *DNNDetector) Detect(ctx context.Context, img image.Image) (map[int][]postprocess.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, errors.New("detector is closed")
	}

	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, errors.Wrap(err, "failed to convert image")
	}
	defer mat.Close()

	// Mats are BGR; the model expects RGB.
	size := image.Pt(d.cfg.InputSize, d.cfg.InputSize)
	blob := gocv.BlobFromImage(mat, 1.0/255.0, size, gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	d.net.SetInput(blob, "")
	out := d.net.Forward("")
	defer out.Close()

	data, err := out.DataPtrFloat32()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read network output")
	}

	dims := out.Size()
	shape := make([]int64, len(dims))
	for i, v := range dims {
		shape[i] = int64(v)
	}

	b := img.Bounds()
	return finish(d.cfg, data, shape, b.Dx(), b.Dy())
}

// Close releases the network.
func (d *DNNDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true
	d.logger.Debug("opencv detector closed")

	return d.net.Close()
}
