package fileutil

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestLinesRoundTrip(t *testing.T) {
	name := filepath.Join(t.TempDir(), "nested", "list.txt")
	want := []string{"/data/obj/1.png", "/data/obj/2.png"}
	if err := SaveLines(want, name); err != nil {
		t.Fatal(err)
	}
	got, err := LoadLines(name)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("want %v, got %v", want, got)
	}
}

func TestCopyAndBase(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.txt")
	if err := SaveLines([]string{"x"}, src); err != nil {
		t.Fatal(err)
	}
	dst := filepath.Join(dir, "out", "b.txt")
	if err := Copy(src, dst); err != nil {
		t.Fatal(err)
	}
	if !Exists(dst) {
		t.Fatal("copy missing")
	}
	if got := Base("/x/y/12.tar.png"); got != "12.tar" {
		t.Errorf("Base: want 12.tar, got %s", got)
	}
}
