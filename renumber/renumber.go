// Package renumber gives a batch of images and their annotations
// sequential integer names.
package renumber

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/jackvalmadre/dataset-tools/dataset"
	"github.com/jackvalmadre/dataset-tools/fileutil"
	"github.com/jackvalmadre/dataset-tools/voc"
)

// Assign numbers the records from start in their current order.
// Only the in-memory identifiers change.
func Assign(recs dataset.Dataset, start int) {
	for i, r := range recs {
		r.ID = start + i
	}
}

// CollisionError reports files outside the batch whose names lie in the
// target range and would be overwritten.
type CollisionError struct {
	Start, End int
	Files      []string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("renumber: ids [%d, %d) already used by %d file(s) outside the batch: %s",
		e.Start, e.End, len(e.Files), strings.Join(e.Files, ", "))
}

// Entry is one image and its annotation file, if any.
type Entry struct {
	Image      string
	Annotation string
}

// Rename is a single move performed by a Plan.
type Rename struct {
	From, To string
}

type move struct {
	img, ann   Rename
	annotation *voc.Annotation
	// Content of the annotation file before Apply.
	raw []byte
}

// Plan is a checked renumbering that has not been applied yet.
type Plan struct {
	moves []move
}

// NewPlan checks that renaming batch to start, start+1, ... overwrites
// nothing. Every path in existing that is not part of the batch and whose
// base name is an integer in [start, start+len(batch)) is a collision.
// Every annotation in the batch is parsed so that Apply does not fail on
// a malformed file half way through.
//
// If ext is empty each image keeps its extension.
func NewPlan(batch []Entry, existing []string, start int, ext string) (*Plan, error) {
	end := start + len(batch)
	inBatch := make(map[string]bool, 2*len(batch))
	for _, e := range batch {
		inBatch[filepath.Clean(e.Image)] = true
		if e.Annotation != "" {
			inBatch[filepath.Clean(e.Annotation)] = true
		}
	}
	var offenders []string
	for _, name := range existing {
		if inBatch[filepath.Clean(name)] {
			continue
		}
		id, err := strconv.Atoi(fileutil.Base(name))
		if err != nil {
			continue
		}
		if start <= id && id < end {
			offenders = append(offenders, name)
		}
	}
	if len(offenders) > 0 {
		dataset.SortNatural(offenders)
		return nil, &CollisionError{Start: start, End: end, Files: offenders}
	}

	p := &Plan{moves: make([]move, len(batch))}
	for i, e := range batch {
		var (
			a   *voc.Annotation
			raw []byte
		)
		if e.Annotation != "" {
			var err error
			if a, err = voc.ReadFile(e.Annotation); err != nil {
				return nil, err
			}
			if raw, err = os.ReadFile(e.Annotation); err != nil {
				return nil, err
			}
		}
		name := strconv.Itoa(start + i)
		imgExt := ext
		if imgExt == "" {
			imgExt = filepath.Ext(e.Image)
		} else {
			imgExt = "." + strings.TrimPrefix(imgExt, ".")
		}
		m := move{
			img:        Rename{e.Image, filepath.Join(filepath.Dir(e.Image), name+imgExt)},
			annotation: a,
			raw:        raw,
		}
		if a != nil {
			m.ann = Rename{e.Annotation, filepath.Join(filepath.Dir(e.Annotation), name+".xml")}
		}
		p.moves[i] = m
	}
	return p, nil
}

// Renames lists the image and annotation moves in batch order.
func (p *Plan) Renames() []Rename {
	var out []Rename
	for _, m := range p.moves {
		out = append(out, m.img)
		if m.annotation != nil {
			out = append(out, m.ann)
		}
	}
	return out
}

// Apply renames every file and rewrites the filename and path of each
// annotation. All files are first moved to unique temporary names so that
// chains such as 2->1, 1->2 within the batch do not clobber each other.
//
// If any step fails, the renames already made are undone in reverse order
// and rewritten annotations get their old content back. Files that could
// not be restored are named in the error.
func (p *Plan) Apply() error {
	var done []Rename
	rename := func(from, to string) error {
		if err := os.Rename(from, to); err != nil {
			return err
		}
		done = append(done, Rename{from, to})
		return nil
	}
	var rewritten []move
	fail := func(err error) error {
		var stranded []string
		for _, m := range rewritten {
			if werr := os.WriteFile(m.ann.To, m.raw, 0o644); werr != nil {
				stranded = append(stranded, m.ann.To)
			}
		}
		for i := len(done) - 1; i >= 0; i-- {
			if uerr := os.Rename(done[i].To, done[i].From); uerr != nil {
				stranded = append(stranded, done[i].To)
			}
		}
		if len(stranded) > 0 {
			return fmt.Errorf("renumber: %w (could not restore %s)", err, strings.Join(stranded, ", "))
		}
		return fmt.Errorf("renumber: %w", err)
	}

	type staged struct {
		tmp, to string
	}
	var stage []staged
	for _, m := range p.moves {
		for _, r := range []Rename{m.img, m.ann} {
			if r.From == r.To {
				// Unchanged, or no annotation.
				continue
			}
			tmp := filepath.Join(filepath.Dir(r.From), ".renumber-"+uuid.NewString()+filepath.Ext(r.From))
			if err := rename(r.From, tmp); err != nil {
				return fail(err)
			}
			stage = append(stage, staged{tmp, r.To})
		}
	}
	for _, s := range stage {
		if err := rename(s.tmp, s.to); err != nil {
			return fail(err)
		}
	}

	for _, m := range p.moves {
		if m.annotation == nil {
			continue
		}
		a := m.annotation.Clone()
		a.Filename = filepath.Base(m.img.To)
		if abs, err := filepath.Abs(m.img.To); err == nil {
			a.Path = abs
		} else {
			a.Path = m.img.To
		}
		rewritten = append(rewritten, m)
		if err := voc.WriteFile(m.ann.To, a); err != nil {
			return fail(fmt.Errorf("rewrite %s: %w", m.ann.To, err))
		}
	}
	return nil
}
