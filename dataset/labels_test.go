package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nvr-ai/go-eval/images"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLabels(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		delimiter string
		want      []Annotation
		wantErr   string
	}{
		{
			name:      "tab separated",
			input:     "0\t0.1\t0.2\t0.3\t0.4\n2\t0.5\t0.5\t1\t1\n",
			delimiter: "\t",
			want: []Annotation{
				{ClassID: 0, Box: images.Box{XMin: 0.1, YMin: 0.2, XMax: 0.3, YMax: 0.4}},
				{ClassID: 2, Box: images.Box{XMin: 0.5, YMin: 0.5, XMax: 1, YMax: 1}},
			},
		},
		{
			name:      "whitespace with blank lines and CRLF",
			input:     "\r\n1  0 0 0.5 0.5\r\n\n   \n",
			delimiter: "",
			want: []Annotation{
				{ClassID: 1, Box: images.Box{XMin: 0, YMin: 0, XMax: 0.5, YMax: 0.5}},
			},
		},
		{
			name:      "comma separated",
			input:     "3,0.1,0.1,0.2,0.2",
			delimiter: ",",
			want: []Annotation{
				{ClassID: 3, Box: images.Box{XMin: 0.1, YMin: 0.1, XMax: 0.2, YMax: 0.2}},
			},
		},
		{
			name:      "empty file",
			input:     "",
			delimiter: "\t",
		},
		{
			name:      "too few fields",
			input:     "0\t0.1\t0.2\n",
			delimiter: "\t",
			wantErr:   "line 1",
		},
		{
			name:      "wrong delimiter",
			input:     "0 0.1 0.2 0.3 0.4\n",
			delimiter: "\t",
			wantErr:   "expected 5 fields",
		},
		{
			name:      "bad class id",
			input:     "0\t0\t0\t1\t1\ncar\t0\t0\t1\t1\n",
			delimiter: "\t",
			wantErr:   "line 2",
		},
		{
			name:      "negative class id",
			input:     "-1\t0\t0\t1\t1\n",
			delimiter: "\t",
			wantErr:   "invalid class id",
		},
		{
			name:      "bad coordinate",
			input:     "0\t0\tx\t1\t1\n",
			delimiter: "\t",
			wantErr:   "invalid coordinate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLabels(strings.NewReader(tt.input), tt.delimiter)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadLabels(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "img.txt")
	require.NoError(t, os.WriteFile(path, []byte("0\t0\t0\t1\t1\n"), 0o644))

	got, err := LoadLabels(path, DefaultDelimiter)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = LoadLabels(filepath.Join(dir, "missing.txt"), DefaultDelimiter)
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	bad := filepath.Join(dir, "bad.txt")
	require.NoError(t, os.WriteFile(bad, []byte("oops\n"), 0o644))
	_, err = LoadLabels(bad, DefaultDelimiter)
	require.Error(t, err)
	assert.Contains(t, err.Error(), bad)
}
