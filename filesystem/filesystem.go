// Package filesystem is the single disk backend of kptv. Config, logs, caches and the
// preference and checkpoint stores all go through API, so tests can swap in memory.
package filesystem

import (
	"io"
	"os"

	"github.com/spf13/afero"
)

var backend = afero.Afero{Fs: afero.NewOsFs()}

func API() afero.Afero {
	return backend
}

// Use replaces the backend.
func Use(fs afero.Fs) {
	backend = afero.Afero{Fs: fs}
}

func SetOsFs() {
	Use(afero.NewOsFs())
}

// SetMemMapFs switches to an empty in-memory backend.
func SetMemMapFs() {
	Use(afero.NewMemMapFs())
}

// GacheFs lets gache stores follow the current backend.
type GacheFs struct{}

func (GacheFs) OpenFile(name string, flag int, perm os.FileMode) (io.ReadWriteCloser, error) {
	return backend.OpenFile(name, flag, perm)
}

func (GacheFs) MkdirAll(path string, perm os.FileMode) error {
	return backend.MkdirAll(path, perm)
}
