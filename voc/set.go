package voc

import "sort"

// Set maps image names to their annotations.
type Set map[string]*Annotation

// Loads all object annotations for all images in a set of a
// VOCdevkit directory.
func Load(dir, set string) (Set, error) {
	imgs, err := ReadSet(dir, set)
	if err != nil {
		return nil, err
	}

	imgset := make(Set, len(imgs))
	for _, img := range imgs {
		a, err := ReadFile(AnnotationFile(dir, img))
		if err != nil {
			return nil, err
		}
		imgset[img] = a
	}
	return imgset, nil
}

// Class returns the subset of objects of one class.
// Images without any such object are dropped.
// The class "*" keeps everything.
func (s Set) Class(class string) Set {
	if class == "*" {
		return s
	}
	sub := make(Set, len(s))
	for img, a := range s {
		var objs []Object
		for _, obj := range a.Objects {
			if obj.Class != class {
				continue
			}
			objs = append(objs, obj)
		}
		if len(objs) == 0 {
			continue
		}
		b := a.Clone()
		b.Objects = objs
		sub[img] = b
	}
	return sub
}

// Names returns the image names in lexical order.
func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
