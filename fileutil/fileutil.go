// Package fileutil reads and writes the small text and JSON files that
// accompany a dataset.
package fileutil

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LoadLines returns the non-empty lines of a file with surrounding
// white space removed.
func LoadLines(name string) ([]string, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// SaveLines writes one line per element, creating parent directories.
func SaveLines(lines []string, name string) error {
	return Save(name, func(w io.Writer) error {
		for _, line := range lines {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
		return nil
	})
}

// LoadJSON decodes a JSON file into v.
func LoadJSON(name string, v interface{}) error {
	file, err := os.Open(name)
	if err != nil {
		return err
	}
	defer file.Close()
	return json.NewDecoder(file).Decode(v)
}

// SaveJSON encodes v as compact JSON, creating parent directories.
func SaveJSON(name string, v interface{}) error {
	return Save(name, func(w io.Writer) error {
		return json.NewEncoder(w).Encode(v)
	})
}

// Copy copies the contents of src to dst, creating parent directories.
func Copy(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	return Save(dst, func(w io.Writer) error {
		_, err := io.Copy(w, in)
		return err
	})
}

// Exists reports whether name exists.
func Exists(name string) bool {
	_, err := os.Stat(name)
	return err == nil
}

// Base returns the file name without directory or extension.
func Base(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Save creates name and its parent directories and hands a buffered
// writer to fn. The file is flushed and closed before Save returns.
func Save(name string, fn func(io.Writer) error) (err error) {
	if dir := filepath.Dir(name); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	file, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()

	buf := bufio.NewWriter(file)
	if err := fn(buf); err != nil {
		return err
	}
	return buf.Flush()
}
