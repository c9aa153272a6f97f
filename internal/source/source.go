package source

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileInfo describes a report file in the input directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// Scan returns the report files in dir, in directory-listing (name) order.
// Subdirectories and dotfiles are skipped. When extensions is non-empty only
// files with one of those extensions (case-insensitive) are returned.
func Scan(dir string, extensions []string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading input dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if !matchExt(e.Name(), extensions) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		if !info.Mode().IsRegular() {
			continue
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

func matchExt(name string, extensions []string) bool {
	if len(extensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, want := range extensions {
		want = strings.ToLower(want)
		if !strings.HasPrefix(want, ".") {
			want = "." + want
		}
		if ext == want {
			return true
		}
	}
	return false
}
