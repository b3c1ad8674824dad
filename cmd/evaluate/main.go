package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/akamensky/argparse"
	"github.com/nvr-ai/go-eval/config"
	"github.com/nvr-ai/go-eval/dataset"
	"github.com/nvr-ai/go-eval/evaluation"
	"github.com/nvr-ai/go-eval/inference"
	"github.com/nvr-ai/go-eval/inference/detectors"
	"github.com/nvr-ai/go-eval/inference/providers"
	"github.com/nvr-ai/go-eval/logger"
	"github.com/nvr-ai/go-eval/models"
	"github.com/nvr-ai/go-eval/models/yolo"
	"github.com/nvr-ai/go-eval/report"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// flags holds the parsed command line. Zero values mean "not given" for every
// optional flag, leaving the configuration file or the defaults in place.
type flags struct {
	configPath    *string
	imageDir      *string
	labelDir      *string
	modelPath     *string
	inputSize     *int
	numClasses    *int
	gpu           *string
	runtime       *string
	decoder       *string
	confThreshold *float64
	nmsThreshold  *float64
	delimiter     *string
	classesFile   *string
	classSet      *string
	workers       *int
	reportPath    *string
	plotsDir      *string
	drawDir       *string
	drawThreshold *float64
	debug         *bool
}

func newParser() (*argparse.Parser, flags) {
	parser := argparse.NewParser("evaluate", "Measure the mAP of an object detector over a labelled image directory")

	f := flags{
		imageDir:      parser.String("", "image_dir", &argparse.Options{Help: "Directory of images to evaluate", Required: true}),
		labelDir:      parser.String("", "label_dir", &argparse.Options{Help: "Directory of <image stem>.txt label files", Required: true}),
		modelPath:     parser.String("", "model_path", &argparse.Options{Help: "Path to the ONNX model", Required: true}),
		inputSize:     parser.Int("", "input_size", &argparse.Options{Help: "Square model input size in pixels (default 320)"}),
		numClasses:    parser.Int("", "num_classes", &argparse.Options{Help: "Number of classes the model predicts (default 80)"}),
		gpu:           parser.String("", "gpu", &argparse.Options{Help: "CUDA device index; empty runs on the CPU"}),
		configPath:    parser.String("", "config", &argparse.Options{Help: "YAML configuration file"}),
		runtime:       parser.Selector("", "runtime", []string{string(inference.RuntimeONNX), string(inference.RuntimeOpenCV)}, &argparse.Options{Help: "Inference runtime: onnxruntime or opencv"}),
		decoder:       parser.Selector("", "decoder", []string{string(yolo.LayoutV8), string(yolo.LayoutV5)}, &argparse.Options{Help: "Model output layout: yolov8 or yolov5"}),
		confThreshold: parser.Float("", "conf_threshold", &argparse.Options{Help: "Detector confidence floor applied before NMS (default 0)"}),
		nmsThreshold:  parser.Float("", "nms_threshold", &argparse.Options{Help: "NMS IoU threshold (default 0.45)"}),
		delimiter:     parser.String("", "delimiter", &argparse.Options{Help: "Label field separator (default tab)"}),
		classesFile:   parser.String("", "classes", &argparse.Options{Help: "Class names file, one per line"}),
		classSet:      parser.Selector("", "class_set", []string{string(models.ModelFamilyCOCO), string(models.ModelFamilyVOC)}, &argparse.Options{Help: "Built-in class names: coco or voc"}),
		workers:       parser.Int("", "workers", &argparse.Options{Help: "Classes scored concurrently (default: number of CPUs)"}),
		reportPath:    parser.String("", "report", &argparse.Options{Help: "Write a JSON report to this file"}),
		plotsDir:      parser.String("", "plots", &argparse.Options{Help: "Write precision-recall curves at IoU 0.50 to this directory"}),
		drawDir:       parser.String("", "draw", &argparse.Options{Help: "Write images annotated with predictions and ground truth to this directory"}),
		drawThreshold: parser.Float("", "draw_threshold", &argparse.Options{Help: "Minimum confidence of drawn predictions (default 0.5)"}),
		debug:         parser.Flag("", "debug", &argparse.Options{Help: "Enable debug logging"}),
	}

	return parser, f
}

// resolve builds the run configuration: defaults, then the optional YAML file,
// then every flag that was given.
func resolve(f flags) (config.Config, error) {
	cfg := config.Default()
	if *f.configPath != "" {
		loaded, err := config.Load(*f.configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	setString(&cfg.ImageDir, *f.imageDir)
	setString(&cfg.LabelDir, *f.labelDir)
	setString(&cfg.Detector.ModelPath, *f.modelPath)
	setString(&cfg.Delimiter, *f.delimiter)
	setString(&cfg.Classes.File, *f.classesFile)
	setString(&cfg.Output.Report, *f.reportPath)
	setString(&cfg.Output.Plots, *f.plotsDir)
	setString(&cfg.Output.Draw, *f.drawDir)

	if *f.inputSize != 0 {
		cfg.Detector.InputSize = *f.inputSize
	}
	if *f.numClasses != 0 {
		cfg.Detector.NumClasses = *f.numClasses
	}
	if *f.workers != 0 {
		cfg.Workers = *f.workers
	}
	if *f.runtime != "" {
		cfg.Detector.Runtime = inference.Runtime(*f.runtime)
	}
	if *f.decoder != "" {
		cfg.Detector.Layout = yolo.Layout(*f.decoder)
	}
	if *f.classSet != "" {
		cfg.Classes.Set = models.ModelFamily(*f.classSet)
	}
	if *f.confThreshold != 0 {
		cfg.Detector.ConfidenceThreshold = float32(*f.confThreshold)
	}
	if *f.nmsThreshold != 0 {
		cfg.Detector.NMS.IoUThreshold = *f.nmsThreshold
	}
	if *f.drawThreshold != 0 {
		cfg.Output.DrawThreshold = *f.drawThreshold
	}
	if *f.gpu != "" {
		provider, err := providers.FromGPU(*f.gpu)
		if err != nil {
			return cfg, err
		}
		cfg.Detector.Provider = provider
	}
	if *f.debug {
		cfg.Debug = true
	}

	return cfg, cfg.Validate()
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// run collects detections, scores them and writes the configured outputs.
func run(ctx context.Context, cfg config.Config, detector inference.Detector, out io.Writer, log *zap.Logger) error {
	classes, err := cfg.ClassTable()
	if err != nil {
		return err
	}
	if classes.Len() < cfg.Detector.NumClasses {
		log.Warn("class table is shorter than the model output; extra classes are named by index",
			zap.Int("names", classes.Len()), zap.Int("num_classes", cfg.Detector.NumClasses))
	}

	collector, err := dataset.NewCollector(detector, dataset.CollectorConfig{
		ImageDir:      cfg.ImageDir,
		LabelDir:      cfg.LabelDir,
		Delimiter:     cfg.Delimiter,
		DrawDir:       cfg.Output.Draw,
		DrawThreshold: cfg.Output.DrawThreshold,
		Classes:       classes,
	}, log)
	if err != nil {
		return err
	}

	records, stats, err := collector.Collect(ctx)
	if err != nil {
		return errors.Wrap(err, "collection failed")
	}
	fmt.Fprintf(out, "data size: %d\n", len(records))

	ds, err := evaluation.NewDataset(records)
	if err != nil {
		return err
	}

	evaluator, err := evaluation.NewEvaluator(evaluation.Options{
		NumClasses: cfg.Detector.NumClasses,
		Classes:    classes,
		Workers:    cfg.Workers,
	}, log)
	if err != nil {
		return err
	}

	result, err := evaluator.Evaluate(ctx, ds)
	if err != nil {
		return err
	}

	if err := report.WriteText(out, result); err != nil {
		return err
	}

	if cfg.Output.Report != "" {
		doc := report.NewDocument(cfg.Detector.ModelPath, stats, result)
		if err := report.WriteJSON(cfg.Output.Report, doc); err != nil {
			return err
		}
		log.Info("report written", zap.String("path", cfg.Output.Report), zap.Stringer("run_id", doc.RunID))
	}

	if cfg.Output.Plots != "" {
		paths, err := report.WriteCurves(cfg.Output.Plots, result, evaluation.IoUThresholds()[0])
		if err != nil {
			return err
		}
		log.Info("precision-recall curves written", zap.String("dir", cfg.Output.Plots), zap.Int("count", len(paths)))
	}

	return nil
}

func main() {
	parser, f := newParser()
	if err := parser.Parse(os.Args); err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(1)
	}

	cfg, err := resolve(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	detector, err := detectors.New(cfg.Detector, log)
	if err != nil {
		log.Fatal("failed to create detector", zap.Error(err))
	}

	err = run(ctx, cfg, detector, os.Stdout, log)
	if cerr := detector.Close(); cerr != nil {
		log.Warn("failed to close detector", zap.Error(cerr))
	}
	if err != nil {
		log.Error("evaluation failed", zap.Error(err))
		log.Sync() //nolint:errcheck
		os.Exit(1)
	}
}
