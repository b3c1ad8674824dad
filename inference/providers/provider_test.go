package providers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromGPU(t *testing.T) {
	tests := []struct {
		name    string
		gpu     string
		want    Config
		wantErr bool
	}{
		{name: "empty selects cpu", gpu: "", want: Config{Backend: CPU}},
		{name: "whitespace selects cpu", gpu: "  ", want: Config{Backend: CPU}},
		{name: "device zero", gpu: "0", want: Config{Backend: CUDA, DeviceID: 0}},
		{name: "device two", gpu: "2", want: Config{Backend: CUDA, DeviceID: 2}},
		{name: "not a number", gpu: "cuda:0", wantErr: true},
		{name: "negative", gpu: "-1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromGPU(tt.gpu)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, Config{}.Validate())
	assert.NoError(t, Config{Backend: CUDA, DeviceID: 1}.Validate())
	assert.NoError(t, Config{Backend: OpenVINO}.Validate())
	assert.Error(t, Config{Backend: "tpu"}.Validate())
	assert.Error(t, Config{Backend: CUDA, DeviceID: -1}.Validate())
	assert.Error(t, Config{Backend: CPU, IntraOpThreads: -2}.Validate())
}

func TestConfig_String(t *testing.T) {
	assert.Equal(t, "cpu", Config{}.String())
	assert.Equal(t, "cuda:1", Config{Backend: CUDA, DeviceID: 1}.String())
	assert.Equal(t, "coreml", Config{Backend: CoreML}.String())
	assert.False(t, Config{}.Accelerated())
	assert.True(t, Config{Backend: CUDA}.Accelerated())
}

func TestSharedLibraryPath(t *testing.T) {
	assert.Equal(t, "/opt/ort/libonnxruntime.so", SharedLibraryPath("/opt/ort/libonnxruntime.so"))

	t.Setenv(LibraryPathEnv, "/usr/lib/libonnxruntime.so")
	assert.Equal(t, "/usr/lib/libonnxruntime.so", SharedLibraryPath(""))

	t.Setenv(LibraryPathEnv, "")
	assert.NotEmpty(t, SharedLibraryPath(""))
}

func TestCUDAOptions_DeviceID(t *testing.T) {
	assert.Equal(t, "3", cudaOptions(3)["device_id"])
	assert.Equal(t, "1", openVINOOptions(1)["device_id"])
}
