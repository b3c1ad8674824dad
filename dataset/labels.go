package dataset

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/nvr-ai/go-eval/images"
	"github.com/pkg/errors"
)

// DefaultDelimiter separates the fields of a label line.
const DefaultDelimiter = "\t"

// labelFields is the field count of a label line: class_id xmin ymin xmax ymax.
const labelFields = 5

// ParseLabels reads ground truth annotations, one per line.
//
// Each line holds class_id, xmin, ymin, xmax and ymax separated by delimiter.
// An empty delimiter splits on any run of whitespace. Blank lines are skipped.
//
// Arguments:
//   - r: The label source.
//   - delimiter: The field separator.
//
// Returns:
//   - []Annotation: The annotations in file order.
//   - error: An error naming the line number of the first malformed line.
func ParseLabels(r io.Reader, delimiter string) ([]Annotation, error) {
	var annotations []Annotation

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}

		a, err := parseLabelLine(text, delimiter)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		annotations = append(annotations, a)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read labels")
	}

	return annotations, nil
}

func parseLabelLine(text, delimiter string) (Annotation, error) {
	var fields []string
	if delimiter == "" {
		fields = strings.Fields(text)
	} else {
		fields = strings.Split(text, delimiter)
	}
	if len(fields) != labelFields {
		return Annotation{}, errors.Errorf("expected %d fields, got %d", labelFields, len(fields))
	}

	classID, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil {
		return Annotation{}, errors.Wrapf(err, "invalid class id %q", fields[0])
	}
	if classID < 0 {
		return Annotation{}, errors.Errorf("invalid class id %d", classID)
	}

	var coords [4]float64
	for i := range coords {
		v, err := strconv.ParseFloat(strings.TrimSpace(fields[i+1]), 64)
		if err != nil {
			return Annotation{}, errors.Wrapf(err, "invalid coordinate %q", fields[i+1])
		}
		coords[i] = v
	}

	return Annotation{
		ClassID: classID,
		Box:     images.Box{XMin: coords[0], YMin: coords[1], XMax: coords[2], YMax: coords[3]},
	}, nil
}

// LoadLabels reads the label file at path.
//
// A missing file yields an error matching os.ErrNotExist.
func LoadLabels(path, delimiter string) ([]Annotation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open label file %s", path)
	}
	defer f.Close()

	annotations, err := ParseLabels(f, delimiter)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse label file %s", path)
	}

	return annotations, nil
}
