package images

import (
	"bytes"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path     string
		expected ImageFormat
		ok       bool
	}{
		{"a/b/frame-1.jpg", FormatJPEG, true},
		{"IMG.JPEG", FormatJPEG, true},
		{"x.png", FormatPNG, true},
		{"x.webp", FormatWebP, true},
		{"x.bmp", FormatBMP, true},
		{"x.txt", "", false},
		{"noext", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			format, ok := FormatFromPath(tt.path)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, format)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	var pngBuf bytes.Buffer
	require.NoError(t, png.Encode(&pngBuf, getTestImage(40, 30)))
	pngPath := filepath.Join(dir, "a.png")
	require.NoError(t, os.WriteFile(pngPath, pngBuf.Bytes(), 0o644))

	var jpegBuf bytes.Buffer
	require.NoError(t, jpeg.Encode(&jpegBuf, getTestImage(20, 10), nil))
	jpegPath := filepath.Join(dir, "b.jpg")
	require.NoError(t, os.WriteFile(jpegPath, jpegBuf.Bytes(), 0o644))

	img, err := Load(pngPath)
	require.NoError(t, err)
	assert.Equal(t, 40, img.Bounds().Dx())
	assert.Equal(t, 30, img.Bounds().Dy())

	img, err = Load(jpegPath)
	require.NoError(t, err)
	assert.Equal(t, 20, img.Bounds().Dx())
	assert.Equal(t, 10, img.Bounds().Dy())
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	corrupt := filepath.Join(dir, "corrupt.png")
	require.NoError(t, os.WriteFile(corrupt, []byte("not a png"), 0o644))

	_, err := Load(corrupt)
	require.Error(t, err)
	assert.Contains(t, err.Error(), corrupt)

	_, err = Load(filepath.Join(dir, "missing.jpg"))
	assert.Error(t, err)

	_, err = Load(filepath.Join(dir, "labels.txt"))
	assert.Error(t, err)
}
