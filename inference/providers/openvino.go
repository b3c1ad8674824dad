package providers

import (
	"strconv"

	"github.com/pkg/errors"
	ort "github.com/yalue/onnxruntime_go"
)

// openVINOOptions returns the OpenVINO provider settings.
// See:
// https://onnxruntime.ai/docs/execution-providers/OpenVINO-ExecutionProvider.html#summary-of-options
func openVINOOptions(deviceID int) map[string]string {
	return map[string]string{
		"device_id":   strconv.Itoa(deviceID),
		"device_type": "CPU",
		"precision":   "FP32",
	}
}

func appendOpenVINO(options *ort.SessionOptions, deviceID int) error {
	if err := options.AppendExecutionProviderOpenVINO(openVINOOptions(deviceID)); err != nil {
		return errors.Wrap(err, "error enabling OpenVINO")
	}

	return nil
}
