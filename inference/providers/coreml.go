package providers

import (
	"github.com/pkg/errors"
	ort "github.com/yalue/onnxruntime_go"
)

// coreMLFlags holds the COREMLFlags bitmask. 0 lets CoreML use every compute unit.
const coreMLFlags uint32 = 0

func appendCoreML(options *ort.SessionOptions) error {
	if err := options.AppendExecutionProviderCoreML(coreMLFlags); err != nil {
		return errors.Wrap(err, "error enabling CoreML")
	}

	return nil
}
