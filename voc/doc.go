// Package voc reads and writes Pascal VOC annotations.
//
// Each image has one XML file giving the size of the image and a list of
// named, axis-aligned boxes. The same layout is written by labelImg and is
// used as the interchange format between the other encoders. Helpers for
// the VOCdevkit directory structure (Annotations, JPEGImages,
// ImageSets/Main) are also provided.
package voc
