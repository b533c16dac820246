// Package fonts locates TTF and OTF files on disk.
package fonts

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNotFound means no font file matched.
var ErrNotFound = errors.New("fonts: no matching font")

// Extensions we consider as font files.
var Exts = []string{".ttf", ".otf"}

// DefaultDirs are searched relative to the process cwd, first match wins.
var DefaultDirs = []string{"assets/fonts", "../../assets/fonts"}

// ScanDir returns relative paths of all font files under dir (e.g. "Inter/Inter-Regular.ttf"),
// sorted, with forward slashes. A missing dir yields no paths and no error.
func ScanDir(dir string) ([]string, error) {
	var out []string
	dir = filepath.Clean(dir)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() || !isFont(path) {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	sort.Strings(out)
	return out, err
}

func isFont(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Exts {
		if ext == e {
			return true
		}
	}
	return false
}

// normalizeForMatch lowercases and removes spaces, dashes, and underscores for fuzzy matching.
func normalizeForMatch(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, "_", "")
	return s
}

// Find resolves the overlay font. search may be a file path, a family name like "Inter",
// or a partial file name like "Inter-Regular". An empty search takes any font in dirs.
// When several files match, one whose name contains "regular" is preferred.
// Returns the full path of the chosen file.
func Find(search string, dirs ...string) (string, error) {
	search = strings.TrimSpace(search)
	if search != "" && isFont(search) {
		if info, err := os.Stat(search); err == nil && !info.IsDir() {
			return search, nil
		}
		search = strings.TrimSuffix(filepath.Base(search), filepath.Ext(search))
	}
	if len(dirs) == 0 {
		dirs = DefaultDirs
	}
	norm := normalizeForMatch(search)

	var candidates []string
	for _, base := range dirs {
		list, err := ScanDir(base)
		if err != nil {
			continue
		}
		for _, rel := range list {
			if strings.Contains(normalizeForMatch(rel), norm) {
				candidates = append(candidates, filepath.Join(base, filepath.FromSlash(rel)))
			}
		}
	}
	if len(candidates) == 0 {
		if search == "" {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %q", ErrNotFound, search)
	}
	for _, c := range candidates {
		if strings.Contains(strings.ToLower(filepath.Base(c)), "regular") {
			return c, nil
		}
	}
	return candidates[0], nil
}
