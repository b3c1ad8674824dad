// Package report - Renders evaluation results as text tables, JSON documents and PR curve plots.
package report

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/nvr-ai/go-eval/evaluation"
	"github.com/pkg/errors"
)

// percent formats a fraction as a percentage.
func percent(v float64) string {
	return fmt.Sprintf("%.2f", v*100)
}

// Table renders per-class APs and the two mAP figures as a text table.
//
// Arguments:
//   - r: The evaluation report.
//
// Returns:
//   - string: The rendered table.
func Table(r *evaluation.Report) string {
	t := table.NewWriter()
	t.SetTitle(fmt.Sprintf("images: %d", r.Images))
	t.AppendHeader(table.Row{"#", "Class", "AP@0.5 (%)", "AP@[0.5:0.95] (%)"})
	for _, c := range r.Classes {
		t.AppendRow(table.Row{c.ClassID, c.Name, percent(c.AP50), percent(c.APMean)})
	}
	t.AppendFooter(table.Row{"", "mAP", percent(r.MAP50), percent(r.MAP5095)})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight, AlignFooter: text.AlignRight},
		{Number: 4, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})

	return t.Render()
}

// WriteText writes the table followed by a plain summary of the mAP figures.
func WriteText(w io.Writer, r *evaluation.Report) error {
	_, err := fmt.Fprintf(w, "%s\n----------\nmAP@0.5: %s\nmAP@[0.5:0.95]: %s\n",
		Table(r), percent(r.MAP50), percent(r.MAP5095))

	return errors.Wrap(err, "failed to write report")
}
