// Package imgio loads, resamples and saves dataset images.
package imgio

import (
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/jackvalmadre/dataset-tools/fileutil"
)

// Dimensions returns the width and height of an image without decoding
// the pixels.
func Dimensions(filename string) (image.Point, error) {
	conf, err := LoadConfig(filename)
	if err != nil {
		return image.Point{}, err
	}
	return image.Pt(conf.Width, conf.Height), nil
}

func LoadConfig(filename string) (image.Config, error) {
	file, err := os.Open(filename)
	if err != nil {
		return image.Config{}, err
	}
	defer file.Close()

	conf, _, err := image.DecodeConfig(file)
	if err != nil {
		return image.Config{}, fmt.Errorf("decode %s: %w", filename, err)
	}
	return conf, nil
}

func Load(filename string) (image.Image, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filename, err)
	}
	return img, nil
}

// Save encodes img in the format given by the extension of filename.
// Parent directories are created.
func Save(img image.Image, filename string, quality int) error {
	enc, err := encoder(filepath.Ext(filename), quality)
	if err != nil {
		return err
	}
	return fileutil.Save(filename, func(w io.Writer) error {
		return enc(w, img)
	})
}

type encodeFunc func(io.Writer, image.Image) error

func encoder(ext string, quality int) (encodeFunc, error) {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "jpg", "jpeg":
		if quality <= 0 {
			quality = jpeg.DefaultQuality
		}
		return func(w io.Writer, img image.Image) error {
			return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
		}, nil
	case "png":
		return png.Encode, nil
	case "gif":
		return func(w io.Writer, img image.Image) error {
			return gif.Encode(w, img, nil)
		}, nil
	case "bmp":
		return bmp.Encode, nil
	case "tif", "tiff":
		return func(w io.Writer, img image.Image) error {
			return tiff.Encode(w, img, nil)
		}, nil
	}
	return nil, fmt.Errorf("no encoder for image extension %q", ext)
}

// CanEncode reports whether Save supports the extension.
func CanEncode(ext string) bool {
	_, err := encoder(ext, 0)
	return err == nil
}

// Copy copies an image file unchanged.
func Copy(src, dst string) error {
	return fileutil.Copy(src, dst)
}
