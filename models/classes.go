// Package models - Class tables mapping model output indices to names.
package models

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ModelFamily is the dataset convention a class table follows.
type ModelFamily string

const (
	// ModelFamilyCOCO is the 80 COCO 2017 classes, zero-based, no background.
	ModelFamilyCOCO ModelFamily = "coco"
	// ModelFamilyVOC is the 20 Pascal VOC classes, zero-based, no background.
	ModelFamilyVOC ModelFamily = "voc"
	// ModelFamilyCustom is a class table loaded from a file.
	ModelFamilyCustom ModelFamily = "custom"
)

// ClassTable is an ordered class-id to name mapping, validated once at
// construction. Index i of the table is class id i.
type ClassTable struct {
	// Class set identifier.
	Style ModelFamily
	names []string
	// nameToIdx for fast lookup by name
	nameToIdx map[string]int
}

// NewClassTable builds a table from names ordered by class id.
//
// Arguments:
//   - style: The family the table belongs to.
//   - names: Class names, where names[i] is the name of class id i.
//
// Returns:
//   - *ClassTable: The validated table.
//   - error: An error if the table is empty or contains blank or duplicate names.
func NewClassTable(style ModelFamily, names []string) (*ClassTable, error) {
	if len(names) == 0 {
		return nil, errors.Errorf("class table %q is empty", style)
	}

	t := &ClassTable{
		Style:     style,
		names:     make([]string, len(names)),
		nameToIdx: make(map[string]int, len(names)),
	}
	for i, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, errors.Errorf("class table %q: blank name for class %d", style, i)
		}
		if prev, ok := t.nameToIdx[name]; ok {
			return nil, errors.Errorf("class table %q: name %q used by classes %d and %d", style, name, prev, i)
		}
		t.names[i] = name
		t.nameToIdx[name] = i
	}

	return t, nil
}

// MustClassTable is NewClassTable for tables known to be valid at compile time.
func MustClassTable(style ModelFamily, names []string) *ClassTable {
	t, err := NewClassTable(style, names)
	if err != nil {
		panic(err)
	}
	return t
}

// Len returns the number of classes in the table.
func (t *ClassTable) Len() int {
	return len(t.names)
}

// Name returns the name of a class id. Ids outside the table, or any id of a
// nil table, are rendered by FallbackClassName so reports stay readable for
// models with extra outputs.
func (t *ClassTable) Name(idx int) string {
	if t == nil || idx < 0 || idx >= len(t.names) {
		return FallbackClassName(idx)
	}
	return t.names[idx]
}

// FallbackClassName names a class that has no entry in a table.
func FallbackClassName(idx int) string {
	return "class_" + strconv.Itoa(idx)
}

// Index returns the class id for a name.
func (t *ClassTable) Index(name string) (int, error) {
	idx, ok := t.nameToIdx[name]
	if !ok {
		return -1, errors.Errorf("name %q not found in class table %q", name, t.Style)
	}
	return idx, nil
}

// Names returns a copy of the names ordered by class id.
func (t *ClassTable) Names() []string {
	return append([]string(nil), t.names...)
}

// LoadClassFile reads a text file with one class name per line. Blank lines
// are ignored; line order defines the class ids.
func LoadClassFile(path string) (*ClassTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open class file %s", path)
	}
	defer f.Close()

	var names []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			names = append(names, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to read class file %s", path)
	}

	t, err := NewClassTable(ModelFamilyCustom, names)
	if err != nil {
		return nil, errors.Wrapf(err, "class file %s", path)
	}
	return t, nil
}

// COCOClasses is the 80 COCO 2017 detection classes in model output order.
var COCOClasses = MustClassTable(ModelFamilyCOCO, []string{
	"person", "bicycle", "car", "motorcycle", "airplane", "bus", "train", "truck",
	"boat", "traffic light", "fire hydrant", "stop sign", "parking meter", "bench",
	"bird", "cat", "dog", "horse", "sheep", "cow", "elephant", "bear", "zebra",
	"giraffe", "backpack", "umbrella", "handbag", "tie", "suitcase", "frisbee",
	"skis", "snowboard", "sports ball", "kite", "baseball bat", "baseball glove",
	"skateboard", "surfboard", "tennis racket", "bottle", "wine glass", "cup",
	"fork", "knife", "spoon", "bowl", "banana", "apple", "sandwich", "orange",
	"broccoli", "carrot", "hot dog", "pizza", "donut", "cake", "chair", "couch",
	"potted plant", "bed", "dining table", "toilet", "tv", "laptop", "mouse",
	"remote", "keyboard", "cell phone", "microwave", "oven", "toaster", "sink",
	"refrigerator", "book", "clock", "vase", "scissors", "teddy bear",
	"hair drier", "toothbrush",
})

// PascalVOCClasses is the 20 Pascal VOC classes in model output order.
var PascalVOCClasses = MustClassTable(ModelFamilyVOC, []string{
	"aeroplane", "bicycle", "bird", "boat", "bottle", "bus", "car", "cat",
	"chair", "cow", "diningtable", "dog", "horse", "motorbike", "person",
	"pottedplant", "sheep", "sofa", "train", "tvmonitor",
})

// ClassTableForFamily returns the built-in table of a family.
func ClassTableForFamily(style ModelFamily) (*ClassTable, error) {
	switch style {
	case ModelFamilyCOCO:
		return COCOClasses, nil
	case ModelFamilyVOC:
		return PascalVOCClasses, nil
	default:
		return nil, errors.Errorf("no built-in class table for %q", style)
	}
}
