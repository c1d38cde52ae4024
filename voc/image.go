package voc

import (
	"path/filepath"
	"strings"

	"github.com/jackvalmadre/dataset-tools/fileutil"
)

// Sub-directories of a VOCdevkit year directory.
const (
	AnnotationsDir = "Annotations"
	ImagesDir      = "JPEGImages"
	SetsDir        = "ImageSets/Main"
)

// Returns <dir>/JPEGImages/<img>.<ext>.
func ImageFile(dir, img, ext string) string {
	return filepath.Join(dir, ImagesDir, img+"."+strings.TrimPrefix(ext, "."))
}

// Returns <dir>/Annotations/<img>.xml.
func AnnotationFile(dir, img string) string {
	return filepath.Join(dir, AnnotationsDir, img+".xml")
}

// Returns <dir>/ImageSets/Main/<set>.txt.
func SetFile(dir, set string) string {
	return filepath.Join(dir, SetsDir, set+".txt")
}

// Loads list of all image names.
//
// Looks in <dir>/ImageSets/Main/<set>.txt.
//
// The set can either be simply "train", "val" or "trainval",
// or it can be "<class>_<set>", for example "horse_val".
// Class sets carry a label after each name which is dropped.
func ReadSet(dir, set string) ([]string, error) {
	lines, err := fileutil.LoadLines(SetFile(dir, set))
	if err != nil {
		return nil, err
	}
	for i, line := range lines {
		if fields := strings.Fields(line); len(fields) > 0 {
			lines[i] = fields[0]
		}
	}
	return lines, nil
}

// Writes <dir>/ImageSets/Main/<set>.txt with one image name per line.
func WriteSet(dir, set string, names []string) error {
	return fileutil.SaveLines(names, SetFile(dir, set))
}
