// Package resource reads the style, record, and locale files a render
// needs from disk. Reads are whole-file and errors propagate untouched;
// a missing file is never replaced with an empty string.
package resource

import (
	"fmt"
	"os"
	"path/filepath"
)

// ReadTextFile returns the full contents of path as UTF-8 text.
func ReadTextFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// LocalePath returns the expected location of the CSL locale file for
// the given language tag, e.g. LocalePath("./locales", "fr-FR") ->
// "locales/locales-fr-FR.xml".
func LocalePath(dir, lang string) string {
	return filepath.Join(dir, fmt.Sprintf("locales-%s.xml", lang))
}

// ReadLocale loads the locale file for lang from dir.
func ReadLocale(dir, lang string) (string, error) {
	return ReadTextFile(LocalePath(dir, lang))
}
