// Package config - YAML-backed configuration of an evaluation run.
package config

import (
	"bytes"
	"io"
	"os"

	"github.com/nvr-ai/go-eval/dataset"
	"github.com/nvr-ai/go-eval/inference/detectors"
	"github.com/nvr-ai/go-eval/models"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the full configuration of an evaluation run.
type Config struct {
	// ImageDir holds the images to evaluate.
	ImageDir string `yaml:"image_dir"`
	// LabelDir holds one <image stem>.txt label file per image.
	LabelDir string `yaml:"label_dir"`
	// Delimiter separates label fields. Empty splits on any whitespace.
	Delimiter string `yaml:"delimiter"`

	Detector detectors.Config `yaml:"detector"`
	Classes  Classes          `yaml:"classes"`
	Output   Output           `yaml:"output"`

	// Workers bounds the classes scored concurrently. 0 uses every CPU.
	Workers int `yaml:"workers"`
	// Debug enables development logging.
	Debug bool `yaml:"debug"`
}

// Classes selects the class names used in reports.
type Classes struct {
	// File is a text file with one class name per line. It overrides Set.
	File string `yaml:"file"`
	// Set is a built-in table: coco or voc.
	Set models.ModelFamily `yaml:"set"`
}

// Output selects the optional artifacts of a run.
type Output struct {
	// Report is a JSON report path.
	Report string `yaml:"report"`
	// Plots is a directory for precision-recall curves at IoU 0.50.
	Plots string `yaml:"plots"`
	// Draw is a directory for images annotated with predictions and ground truth.
	Draw string `yaml:"draw"`
	// DrawThreshold hides drawn predictions below this confidence.
	DrawThreshold float64 `yaml:"draw_threshold"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Delimiter: dataset.DefaultDelimiter,
		Detector:  detectors.DefaultConfig(),
		Classes:   Classes{Set: models.ModelFamilyCOCO},
		Output:    Output{DrawThreshold: 0.5},
	}
}

// Load reads a YAML file over the defaults. Unknown keys are rejected.
//
// Arguments:
//   - path: The YAML file.
//
// Returns:
//   - Config: The merged configuration. It is not validated.
//   - error: An error if the file cannot be read or decoded.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "failed to read config %s", path)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, errors.Wrapf(err, "failed to decode config %s", path)
	}

	return cfg, nil
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.ImageDir == "" {
		return errors.New("image_dir is required")
	}
	if c.LabelDir == "" {
		return errors.New("label_dir is required")
	}
	if c.Workers < 0 {
		return errors.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.Output.DrawThreshold < 0 || c.Output.DrawThreshold > 1 {
		return errors.Errorf("draw_threshold must be within [0, 1], got %v", c.Output.DrawThreshold)
	}
	if c.Classes.File == "" {
		if _, err := models.ClassTableForFamily(c.Classes.Set); err != nil {
			return errors.Wrap(err, "invalid class set")
		}
	}

	return errors.Wrap(c.Detector.Validate(), "invalid detector")
}

// ClassTable loads the configured class names.
func (c Config) ClassTable() (*models.ClassTable, error) {
	if c.Classes.File != "" {
		return models.LoadClassFile(c.Classes.File)
	}
	return models.ClassTableForFamily(c.Classes.Set)
}
