package registry

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"housingd/internal/artifact"
	"housingd/internal/common/fsutil"
)

// Entry is one model artifact found on disk.
type Entry struct {
	Name    string
	Path    string
	Size    int64
	ModTime time.Time
}

// noArtifactsError is returned by Resolve when a directory holds no artifacts.
type noArtifactsError struct{ dir string }

func (e noArtifactsError) Error() string { return "no model artifacts in " + e.dir }

// IsNoArtifacts reports whether err came from resolving an empty directory.
func IsNoArtifacts(err error) bool {
	_, ok := err.(noArtifactsError)
	return ok
}

// List scans dir for *.gob artifacts, newest first. Ties on modification
// time are broken by name, descending, so versioned names sort sensibly.
func List(dir string) ([]Entry, error) {
	abs, err := fsutil.AbsPath(dir)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, errors.Wrap(err, "read dir")
	}
	var out []Entry
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, ".") || !strings.EqualFold(filepath.Ext(name), artifact.Ext) {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, Entry{Name: name, Path: filepath.Join(abs, name), Size: fi.Size(), ModTime: fi.ModTime()})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ModTime.Equal(out[j].ModTime) {
			return out[i].ModTime.After(out[j].ModTime)
		}
		return out[i].Name > out[j].Name
	})
	return out, nil
}

// Resolve maps a configured model location to a concrete artifact file. A
// file path is returned as is (made absolute); a directory resolves to its
// newest artifact.
func Resolve(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", errors.New("empty model path")
	}
	abs, err := fsutil.AbsPath(path)
	if err != nil {
		return "", err
	}
	fi, err := os.Stat(abs)
	if err != nil {
		return "", errors.Wrap(err, "stat model path")
	}
	if !fi.IsDir() {
		return abs, nil
	}
	list, err := List(abs)
	if err != nil {
		return "", err
	}
	if len(list) == 0 {
		return "", noArtifactsError{dir: abs}
	}
	return list[0].Path, nil
}
