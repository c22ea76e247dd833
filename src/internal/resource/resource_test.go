package resource

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadTextFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "style.csl")
	if err := os.WriteFile(p, []byte("<style/>"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := ReadTextFile(p)
	if err != nil {
		t.Fatalf("ReadTextFile: %v", err)
	}
	if got != "<style/>" {
		t.Fatalf("contents: %q", got)
	}
}

func TestReadTextFileMissing(t *testing.T) {
	if _, err := ReadTextFile(filepath.Join(t.TempDir(), "nope.csl")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLocalePath(t *testing.T) {
	got := LocalePath("./locales", "fr-FR")
	want := filepath.Join("locales", "locales-fr-FR.xml")
	if got != want {
		t.Fatalf("LocalePath: got %q want %q", got, want)
	}
}

func TestReadLocale(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "locales-en-US.xml"), []byte("<locale/>"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := ReadLocale(dir, "en-US")
	if err != nil {
		t.Fatalf("ReadLocale: %v", err)
	}
	if got != "<locale/>" {
		t.Fatalf("locale contents: %q", got)
	}
	if _, err := ReadLocale(dir, "de-DE"); err == nil {
		t.Fatal("expected error for missing locale")
	}
}
