// Package fsys implements domain.FileSystem on top of afero, so every task
// can run against the OS filesystem or an in-memory one in tests.
package fsys

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/francoishill/grunt-process-includes/internal/domain"
)

// Ensure FileSystem implements domain.FileSystem
var _ domain.FileSystem = (*FileSystem)(nil)

const (
	dirPerm  os.FileMode = 0755
	filePerm os.FileMode = 0644
)

// FileSystem wraps an afero.Fs
type FileSystem struct {
	fs afero.Fs
}

// New creates a FileSystem backed by fs; nil means the OS filesystem
func New(fs afero.Fs) *FileSystem {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &FileSystem{fs: fs}
}

// NewOS creates a FileSystem backed by the OS filesystem
func NewOS() *FileSystem {
	return New(afero.NewOsFs())
}

// NewMemory creates a FileSystem backed by an in-memory filesystem
func NewMemory() *FileSystem {
	return New(afero.NewMemMapFs())
}

// Afero exposes the underlying afero.Fs
func (f *FileSystem) Afero() afero.Fs {
	return f.fs
}

// ReadFile returns the full contents of path
func (f *FileSystem) ReadFile(path string) ([]byte, error) {
	return afero.ReadFile(f.fs, path)
}

// WriteFile writes data to path, creating parent directories as needed
func (f *FileSystem) WriteFile(path string, data []byte) error {
	if err := f.ensureParent(path); err != nil {
		return err
	}
	mode := filePerm
	if st, err := f.fs.Stat(path); err == nil {
		if m := st.Mode() & 0o777; m != 0 {
			mode = m
		}
	}
	return afero.WriteFile(f.fs, path, data, mode)
}

// CopyFile copies src to dst, overwriting dst
func (f *FileSystem) CopyFile(src, dst string) error {
	in, err := f.fs.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("copy %s: is a directory", src)
	}

	if err := f.ensureParent(dst); err != nil {
		return err
	}
	out, err := f.fs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, filePerm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy %s to %s: %w", src, dst, err)
	}
	return out.Close()
}

// ByteLength returns the size of path in bytes
func (f *FileSystem) ByteLength(path string) (int64, error) {
	info, err := f.fs.Stat(path)
	if err != nil {
		return 0, err
	}
	if info.IsDir() {
		return 0, fmt.Errorf("size of %s: is a directory", path)
	}
	return info.Size(), nil
}

// Stat returns size and modification time of path
func (f *FileSystem) Stat(path string) (domain.FileInfo, error) {
	info, err := f.fs.Stat(path)
	if err != nil {
		return domain.FileInfo{}, err
	}
	return domain.FileInfo{Size: info.Size(), ModTime: info.ModTime()}, nil
}

func (f *FileSystem) ensureParent(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return f.fs.MkdirAll(dir, dirPerm)
}
