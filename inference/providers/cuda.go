package providers

import (
	"strconv"

	"github.com/pkg/errors"
	ort "github.com/yalue/onnxruntime_go"
)

// cudaOptions returns the CUDA provider settings for a device.
// See:
// https://onnxruntime.ai/docs/execution-providers/CUDA-ExecutionProvider.html#configuration-options
func cudaOptions(deviceID int) map[string]string {
	return map[string]string{
		"device_id":                 strconv.Itoa(deviceID),
		"arena_extend_strategy":     "kNextPowerOfTwo",
		"cudnn_conv_algo_search":    "EXHAUSTIVE",
		"do_copy_in_default_stream": "1",
	}
}

func appendCUDA(options *ort.SessionOptions, deviceID int) error {
	cuda, err := ort.NewCUDAProviderOptions()
	if err != nil {
		return errors.Wrap(err, "error creating CUDA provider options")
	}
	defer cuda.Destroy()

	if err := cuda.Update(cudaOptions(deviceID)); err != nil {
		return errors.Wrapf(err, "error configuring CUDA device %d", deviceID)
	}
	if err := options.AppendExecutionProviderCUDA(cuda); err != nil {
		return errors.Wrapf(err, "error enabling CUDA device %d", deviceID)
	}

	return nil
}
