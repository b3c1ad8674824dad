package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/nvr-ai/go-eval/dataset"
	"github.com/nvr-ai/go-eval/evaluation"
	"github.com/pkg/errors"
)

// Document is the JSON form of a run.
type Document struct {
	RunID     uuid.UUID          `json:"run_id"`
	CreatedAt time.Time          `json:"created_at"`
	Model     string             `json:"model"`
	Stats     dataset.PassStats  `json:"stats"`
	Report    *evaluation.Report `json:"report"`
}

// NewDocument wraps a report with a fresh run id.
func NewDocument(model string, stats dataset.PassStats, r *evaluation.Report) Document {
	return Document{
		RunID:     uuid.New(),
		CreatedAt: time.Now().UTC(),
		Model:     model,
		Stats:     stats,
		Report:    r,
	}
}

// WriteJSON writes doc as indented JSON to path, creating parent directories.
func WriteJSON(path string, doc Document) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "failed to create directory for %s", path)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode report")
	}

	return errors.Wrapf(os.WriteFile(path, data, 0o644), "failed to write %s", path)
}

// ReadJSON loads a document written by WriteJSON.
func ReadJSON(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, errors.Wrapf(err, "failed to read %s", path)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, errors.Wrapf(err, "failed to decode %s", path)
	}

	return doc, nil
}
