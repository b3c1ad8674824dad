package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nvr-ai/go-eval/evaluation"
	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// PlotCurve renders one precision-recall curve: the sampled points and the
// interpolated envelope.
//
// Arguments:
//   - title: The plot title.
//   - curve: The curve to draw.
//   - path: The destination image; the extension selects the format.
//
// Returns:
//   - error: An error if the plot cannot be built or saved.
func PlotCurve(title string, curve evaluation.Curve, path string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Recall"
	p.Y.Label.Text = "Precision"
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1.05
	p.Add(plotter.NewGrid())

	samples := make(plotter.XYs, len(curve.Points))
	for i, pt := range curve.Points {
		samples[i].X = pt.Recall
		samples[i].Y = pt.Precision
	}
	scatter, err := plotter.NewScatter(samples)
	if err != nil {
		return errors.Wrap(err, "failed to plot samples")
	}

	envelope := make(plotter.XYs, len(curve.Envelope))
	for k, v := range curve.Envelope {
		envelope[k].X = float64(k) / evaluation.RecallBins
		envelope[k].Y = v
	}
	line, err := plotter.NewLine(envelope)
	if err != nil {
		return errors.Wrap(err, "failed to plot envelope")
	}
	line.StepStyle = plotter.PreStep

	p.Add(line, scatter)
	p.Legend.Add("samples", scatter)
	p.Legend.Add(fmt.Sprintf("interpolated (AP %.3f)", curve.AP), line)
	p.Legend.Top = true

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "failed to create directory for %s", path)
	}

	return errors.Wrapf(p.Save(6*vg.Inch, 4*vg.Inch, path), "failed to save plot %s", path)
}

// WriteCurves saves one PNG per class for the curve at iouThreshold.
//
// Arguments:
//   - dir: The output directory.
//   - r: The evaluation report.
//   - iouThreshold: The IoU threshold whose curves are drawn.
//
// Returns:
//   - []string: The written file paths.
//   - error: The first failure.
func WriteCurves(dir string, r *evaluation.Report, iouThreshold float64) ([]string, error) {
	var paths []string
	for _, c := range r.Classes {
		for _, curve := range c.Curves {
			if curve.IoUThreshold != iouThreshold {
				continue
			}
			path := filepath.Join(dir, fmt.Sprintf("pr_%03d_%s_iou%02.0f.png", c.ClassID, fileSafe(c.Name), iouThreshold*100))
			title := fmt.Sprintf("%s @ IoU %.2f", c.Name, iouThreshold)
			if err := PlotCurve(title, curve, path); err != nil {
				return paths, err
			}
			paths = append(paths, path)
		}
	}

	return paths, nil
}

func fileSafe(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
