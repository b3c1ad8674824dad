package images

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrawOverlays(t *testing.T) {
	src := getTestImage(64, 48)
	path := filepath.Join(t.TempDir(), "nested", "frame.png")

	err := DrawOverlays(src, []Overlay{
		{Box: Box{XMin: 0.1, YMin: 0.1, XMax: 0.5, YMax: 0.5}, Label: "person", Color: GroundTruthColor},
		{Box: Box{XMin: 0.2, YMin: 0.2, XMax: 0.6, YMax: 0.7}, Label: "person 0.91", Color: PredictionColor},
	}, path)
	require.NoError(t, err)

	drawn, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, src.Bounds().Size(), drawn.Bounds().Size())

	// The source image is left untouched.
	r, g, b, _ := src.At(6, 5).RGBA()
	assert.Equal(t, []uint32{0xffff, 0, 0}, []uint32{r, g, b})
}
