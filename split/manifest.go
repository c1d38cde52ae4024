package split

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/jackvalmadre/dataset-tools/fileutil"
)

// Manifest records which records were assigned to each subset by a run.
type Manifest struct {
	Mode          string    `msgpack:"mode"`
	TrainFraction float64   `msgpack:"train_fraction"`
	Created       time.Time `msgpack:"created"`
	Train         []string  `msgpack:"train"`
	Val           []string  `msgpack:"val"`
}

// ReadManifest loads a manifest written by WriteManifest.
// A missing file gives an error satisfying errors.Is(err, fs.ErrNotExist).
func ReadManifest(name string) (*Manifest, error) {
	b, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	m := new(Manifest)
	if err := msgpack.Unmarshal(b, m); err != nil {
		return nil, fmt.Errorf("decode manifest %s: %w", name, err)
	}
	return m, nil
}

// WriteManifest saves m, creating parent directories.
func WriteManifest(name string, m *Manifest) error {
	b, err := msgpack.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	return fileutil.Save(name, func(w io.Writer) error {
		_, err := w.Write(b)
		return err
	})
}

// Contaminated returns the names in train that were validation records
// in prev, in the order of train.
func Contaminated(prev *Manifest, train []string) []string {
	if prev == nil {
		return nil
	}
	wasVal := make(map[string]bool, len(prev.Val))
	for _, name := range prev.Val {
		wasVal[name] = true
	}
	var out []string
	for _, name := range train {
		if wasVal[name] {
			out = append(out, name)
		}
	}
	return out
}
