package evaluation

import (
	"context"
	"runtime"
	"time"

	"github.com/nvr-ai/go-eval/models"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

// ErrNoGroundTruth is returned when no class has any ground truth, so no mAP exists.
var ErrNoGroundTruth = errors.New("no class has ground truth")

// Options configures an Evaluator.
type Options struct {
	// NumClasses is the number of classes scored, ids 0..NumClasses-1.
	NumClasses int
	// Classes names the classes in the report. Nil falls back to class_N.
	Classes *models.ClassTable
	// Workers bounds the classes scored concurrently. 0 uses runtime.NumCPU().
	Workers int
}

// Evaluator computes per-class AP and mAP over a Dataset.
type Evaluator struct {
	opts   Options
	logger *zap.Logger
}

// ClassResult is the score of one class with ground truth.
type ClassResult struct {
	ClassID int    `json:"class_id"`
	Name    string `json:"name"`
	// AP50 is the AP at IoU 0.50.
	AP50 float64 `json:"ap50"`
	// APMean is the mean AP over IoU 0.50..0.95.
	APMean float64 `json:"ap50_95"`
	// Curves holds one curve per IoU threshold, ascending.
	Curves []Curve `json:"curves"`
}

// Report is the outcome of an evaluation.
type Report struct {
	Images int `json:"images"`
	// Classes holds the classes with ground truth, by ascending id.
	Classes []ClassResult `json:"classes"`
	// Skipped lists the class ids without ground truth.
	Skipped []int `json:"skipped"`
	// MAP50 is mAP@0.5.
	MAP50 float64 `json:"map50"`
	// MAP5095 is mAP@[0.5:0.95].
	MAP5095 float64       `json:"map50_95"`
	Elapsed time.Duration `json:"elapsed"`
}

// NewEvaluator creates an evaluator.
//
// Arguments:
//   - opts: The evaluation options.
//   - logger: The logger. Nil disables logging.
//
// Returns:
//   - *Evaluator: The evaluator.
//   - error: An error if the options are invalid.
func NewEvaluator(opts Options, logger *zap.Logger) (*Evaluator, error) {
	if opts.NumClasses <= 0 {
		return nil, errors.Errorf("num_classes must be positive, got %d", opts.NumClasses)
	}
	if opts.Workers < 0 {
		return nil, errors.Errorf("workers must not be negative, got %d", opts.Workers)
	}
	if opts.Workers == 0 {
		opts.Workers = runtime.NumCPU()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Evaluator{opts: opts, logger: logger}, nil
}

// EvaluateClass scores one class at every IoU threshold.
//
// Returns:
//   - ClassResult: The class score.
//   - bool: False when the class has no ground truth and must be skipped.
func (e *Evaluator) EvaluateClass(ds *Dataset, classID int) (ClassResult, bool) {
	result := ClassResult{ClassID: classID, Name: e.opts.Classes.Name(classID)}

	for _, iou := range IoUThresholds() {
		curve, ok := AveragePrecision(ds, classID, iou)
		if !ok {
			continue
		}
		result.Curves = append(result.Curves, curve)
	}
	if len(result.Curves) == 0 {
		return ClassResult{}, false
	}

	aps := make([]float64, len(result.Curves))
	for i, c := range result.Curves {
		aps[i] = c.AP
	}
	result.AP50 = aps[0]
	result.APMean = stat.Mean(aps, nil)

	return result, true
}

// Evaluate scores every class and averages the results.
//
// Classes are scored concurrently by up to Options.Workers goroutines, each
// writing only its own slot of the result slice.
//
// Arguments:
//   - ctx: Cancels the evaluation between classes.
//   - ds: The dataset.
//
// Returns:
//   - *Report: Per-class APs, mAP@0.5 and mAP@[0.5:0.95].
//   - error: ErrNoGroundTruth when no class has data, or the context error.
func (e *Evaluator) Evaluate(ctx context.Context, ds *Dataset) (*Report, error) {
	start := time.Now()

	results := make([]*ClassResult, e.opts.NumClasses)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Workers)

	for classID := 0; classID < e.opts.NumClasses; classID++ {
		if err := gctx.Err(); err != nil {
			break
		}
		classID := classID
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if r, ok := e.EvaluateClass(ds, classID); ok {
				results[classID] = &r
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "evaluation cancelled")
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "evaluation cancelled")
	}

	report := &Report{Images: ds.Len()}
	var ap50s, apMeans []float64
	for classID, r := range results {
		if r == nil {
			report.Skipped = append(report.Skipped, classID)
			continue
		}
		report.Classes = append(report.Classes, *r)
		ap50s = append(ap50s, r.AP50)
		apMeans = append(apMeans, r.APMean)

		e.logger.Debug("class evaluated",
			zap.Int("class_id", r.ClassID),
			zap.String("name", r.Name),
			zap.Float64("ap50", r.AP50),
			zap.Float64("ap50_95", r.APMean),
		)
	}
	if len(report.Classes) == 0 {
		return nil, ErrNoGroundTruth
	}

	report.MAP50 = stat.Mean(ap50s, nil)
	report.MAP5095 = stat.Mean(apMeans, nil)
	report.Elapsed = time.Since(start)

	e.logger.Info("evaluation complete",
		zap.Int("images", report.Images),
		zap.Int("classes", len(report.Classes)),
		zap.Int("skipped", len(report.Skipped)),
		zap.Float64("map50", report.MAP50),
		zap.Float64("map50_95", report.MAP5095),
		zap.Duration("elapsed", report.Elapsed),
	)

	return report, nil
}
