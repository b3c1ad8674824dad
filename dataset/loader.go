package dataset

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nvr-ai/go-eval/images"
	"github.com/nvr-ai/go-eval/inference"
	"github.com/nvr-ai/go-eval/models"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// CollectorConfig locates the images and labels of a collection pass.
type CollectorConfig struct {
	// ImageDir holds the images. Sub-directories and non-image files are ignored.
	ImageDir string
	// LabelDir holds one <image stem>.txt label file per image.
	LabelDir string
	// Delimiter separates label fields. Empty splits on whitespace.
	Delimiter string
	// DrawDir, when set, receives a PNG per image with predictions and ground truth drawn.
	DrawDir string
	// DrawThreshold hides drawn predictions below this confidence.
	DrawThreshold float64
	// Classes names the drawn boxes. Nil labels them by index.
	Classes *models.ClassTable
}

// Collector runs a detector over a directory of labelled images.
type Collector struct {
	detector inference.Detector
	cfg      CollectorConfig
	logger   *zap.Logger
}

// NewCollector creates a collector.
//
// Arguments:
//   - detector: The detector to run. The collector does not close it.
//   - cfg: The directories and drawing options.
//   - logger: The logger. Nil disables logging.
//
// Returns:
//   - *Collector: The collector.
//   - error: An error if a directory is missing.
func NewCollector(detector inference.Detector, cfg CollectorConfig, logger *zap.Logger) (*Collector, error) {
	if detector == nil {
		return nil, errors.New("detector is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	for _, dir := range []string{cfg.ImageDir, cfg.LabelDir} {
		info, err := os.Stat(dir)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to stat %q", dir)
		}
		if !info.IsDir() {
			return nil, errors.Errorf("%s is not a directory", dir)
		}
	}

	return &Collector{detector: detector, cfg: cfg, logger: logger}, nil
}

// ImagePaths lists the images of dir in lexical order.
func ImagePaths(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read image directory %s", dir)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := images.FormatFromPath(entry.Name()); ok {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}

	return paths, nil
}

// LabelPath returns the label file for an image: the image stem with a .txt
// extension inside labelDir.
func LabelPath(labelDir, imagePath string) string {
	base := filepath.Base(imagePath)
	return filepath.Join(labelDir, strings.TrimSuffix(base, filepath.Ext(base))+".txt")
}

// Collect runs the detector over every image that has a label file.
//
// Images without a label file are skipped. Unreadable images, malformed labels
// and detector failures abort the pass.
//
// Arguments:
//   - ctx: Cancels the pass between images.
//
// Returns:
//   - []ImageRecord: One record per evaluated image, in file name order.
//   - PassStats: Counters for the pass.
//   - error: The first fatal error.
func (c *Collector) Collect(ctx context.Context) ([]ImageRecord, PassStats, error) {
	stats := PassStats{Started: time.Now()}

	paths, err := ImagePaths(c.cfg.ImageDir)
	if err != nil {
		return nil, stats, err
	}

	records := make([]ImageRecord, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}
		stats.ImagesSeen++

		labelPath := LabelPath(c.cfg.LabelDir, path)
		if _, err := os.Stat(labelPath); errors.Is(err, os.ErrNotExist) {
			stats.ImagesSkipped++
			c.logger.Debug("skipping image without labels",
				zap.String("image", path), zap.String("labels", labelPath))
			continue
		}

		record, elapsed, err := c.collectOne(ctx, path, labelPath)
		if err != nil {
			return nil, stats, err
		}

		stats.ImagesEvaluated++
		stats.InferenceTime += elapsed
		stats.Detections += len(record.Detections)
		stats.Annotations += len(record.Annotations)
		records = append(records, record)

		c.logger.Debug("collected image",
			zap.String("image", record.ID),
			zap.Int("detections", len(record.Detections)),
			zap.Int("annotations", len(record.Annotations)),
			zap.Duration("inference", elapsed),
		)
	}
	stats.Elapsed = time.Since(stats.Started)

	c.logger.Info("collection pass complete", zap.Object("stats", stats))

	return records, stats, nil
}

func (c *Collector) collectOne(ctx context.Context, path, labelPath string) (ImageRecord, time.Duration, error) {
	annotations, err := LoadLabels(labelPath, c.cfg.Delimiter)
	if err != nil {
		return ImageRecord{}, 0, err
	}

	img, err := images.Load(path)
	if err != nil {
		return ImageRecord{}, 0, err
	}
	b := img.Bounds()

	start := time.Now()
	results, err := c.detector.Detect(ctx, img)
	elapsed := time.Since(start)
	if err != nil {
		return ImageRecord{}, elapsed, errors.Wrapf(err, "detection failed for %s", path)
	}

	record := NewImageRecord(filepath.Base(path), b.Dx(), b.Dy(), FromResults(results, b.Dx(), b.Dy()), annotations)

	if c.cfg.DrawDir != "" {
		out := filepath.Join(c.cfg.DrawDir, strings.TrimSuffix(record.ID, filepath.Ext(record.ID))+".png")
		if err := images.DrawOverlays(img, c.overlays(record), out); err != nil {
			return ImageRecord{}, elapsed, err
		}
	}

	return record, elapsed, nil
}

func (c *Collector) overlays(record ImageRecord) []images.Overlay {
	overlays := make([]images.Overlay, 0, len(record.Annotations)+len(record.Detections))
	for _, a := range record.Annotations {
		overlays = append(overlays, images.Overlay{
			Box:   a.Box,
			Label: c.cfg.Classes.Name(a.ClassID),
			Color: images.GroundTruthColor,
		})
	}
	for _, d := range record.Detections {
		if d.Confidence < c.cfg.DrawThreshold {
			continue
		}
		overlays = append(overlays, images.Overlay{
			Box:   d.Box,
			Label: fmt.Sprintf("%s %.2f", c.cfg.Classes.Name(d.ClassID), d.Confidence),
			Color: images.PredictionColor,
		})
	}
	return overlays
}
