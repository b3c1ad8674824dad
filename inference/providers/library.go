package providers

import (
	"os"
	"runtime"
)

// LibraryPathEnv names the environment variable consulted for the ONNX Runtime
// shared library when no explicit path is configured.
const LibraryPathEnv = "ONNXRUNTIME_SHARED_LIBRARY_PATH"

// SharedLibraryPath resolves the ONNX Runtime shared library to load.
//
// Arguments:
//   - configured: An explicit path. When non-empty it is returned unchanged.
//
// Returns:
//   - string: The library path for the current platform.
func SharedLibraryPath(configured string) string {
	if configured != "" {
		return configured
	}
	if p := os.Getenv(LibraryPathEnv); p != "" {
		return p
	}

	switch runtime.GOOS {
	case "windows":
		return "./third_party/onnxruntime.dll"
	case "darwin":
		return "./third_party/libonnxruntime.dylib"
	default:
		if runtime.GOARCH == "arm64" {
			return "./third_party/onnxruntime_arm64.so"
		}
		return "./third_party/onnxruntime.so"
	}
}
