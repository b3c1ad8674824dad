package inference

import (
	"sync"

	"github.com/nvr-ai/go-eval/inference/providers"
	"github.com/pkg/errors"
	ort "github.com/yalue/onnxruntime_go"
	"go.uber.org/multierr"
)

var (
	environmentMu   sync.Mutex
	environmentRefs int
)

// acquireEnvironment initializes the process-wide ONNX Runtime environment on
// first use. Every successful call must be paired with releaseEnvironment.
func acquireEnvironment(libraryPath string) error {
	environmentMu.Lock()
	defer environmentMu.Unlock()

	if environmentRefs == 0 && !ort.IsInitialized() {
		ort.SetSharedLibraryPath(libraryPath)
		if err := ort.InitializeEnvironment(); err != nil {
			return errors.Wrapf(err, "error initializing ORT environment from %s", libraryPath)
		}
	}
	environmentRefs++

	return nil
}

func releaseEnvironment() error {
	environmentMu.Lock()
	defer environmentMu.Unlock()

	environmentRefs--
	if environmentRefs > 0 || !ort.IsInitialized() {
		return nil
	}

	return errors.Wrap(ort.DestroyEnvironment(), "error destroying ORT environment")
}

// SessionArgs describes an ONNX model with a single image input and a single output.
type SessionArgs struct {
	// ModelPath is the path of the .onnx file.
	ModelPath string
	// LibraryPath is the onnxruntime shared library. Empty resolves via providers.SharedLibraryPath.
	LibraryPath string
	// InputName and OutputName are the graph tensor names.
	InputName  string
	OutputName string
	// InputWidth and InputHeight size the [1, 3, H, W] input tensor.
	InputWidth  int
	InputHeight int
	// Provider selects the execution provider.
	Provider providers.Config
}

// Session represents a model session from the onnxruntime with a reusable
// input tensor. The output is allocated by the runtime on every run.
type Session struct {
	session *ort.DynamicAdvancedSession
	input   *ort.Tensor[float32]
	args    SessionArgs
}

// NewSession loads a model into a new ONNX Runtime session.
//
// Arguments:
//   - args: The model and provider description.
//
// Returns:
//   - *Session: The session. Close it to release the runtime.
//   - error: An error if the runtime, the provider or the model fails to load.
func NewSession(args SessionArgs) (*Session, error) {
	if args.InputWidth <= 0 || args.InputHeight <= 0 {
		return nil, errors.Errorf("invalid input size %dx%d", args.InputWidth, args.InputHeight)
	}

	if err := acquireEnvironment(providers.SharedLibraryPath(args.LibraryPath)); err != nil {
		return nil, err
	}

	options, err := providers.NewSessionOptions(args.Provider)
	if err != nil {
		return nil, multierr.Append(err, releaseEnvironment())
	}
	defer options.Destroy()

	input, err := ort.NewEmptyTensor[float32](
		ort.NewShape(1, 3, int64(args.InputHeight), int64(args.InputWidth)),
	)
	if err != nil {
		return nil, multierr.Append(errors.Wrap(err, "error creating input tensor"), releaseEnvironment())
	}

	session, err := ort.NewDynamicAdvancedSession(
		args.ModelPath,
		[]string{args.InputName},
		[]string{args.OutputName},
		options,
	)
	if err != nil {
		return nil, multierr.Combine(
			errors.Wrapf(err, "error creating ORT session for %s", args.ModelPath),
			input.Destroy(),
			releaseEnvironment(),
		)
	}

	return &Session{session: session, input: input, args: args}, nil
}

// Input returns the backing buffer of the input tensor.
func (s *Session) Input() []float32 {
	return s.input.GetData()
}

// Run executes the model on the current input buffer.
//
// Returns:
//   - []float32: A copy of the output tensor data.
//   - []int64: The output tensor shape.
//   - error: An error if the run fails or the output is not a float32 tensor.
func (s *Session) Run() ([]float32, []int64, error) {
	outputs := []ort.Value{nil}
	if err := s.session.Run([]ort.Value{s.input}, outputs); err != nil {
		return nil, nil, errors.Wrap(err, "failed to run inference")
	}
	defer outputs[0].Destroy()

	out, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return nil, nil, errors.Errorf("output %q is not a float32 tensor", s.args.OutputName)
	}

	data := make([]float32, len(out.GetData()))
	copy(data, out.GetData())

	return data, []int64(out.GetShape()), nil
}

// Close releases the session, its input tensor and, for the last open session,
// the ONNX Runtime environment.
func (s *Session) Close() error {
	var err error
	if s.session != nil {
		err = multierr.Append(err, s.session.Destroy())
		s.session = nil
	}
	if s.input != nil {
		err = multierr.Append(err, s.input.Destroy())
		s.input = nil
		err = multierr.Append(err, releaseEnvironment())
	}

	return err
}
