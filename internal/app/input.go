package app

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
)

// Input is the storage an Editor loads its document from and saves it to.
type Input interface {
	// Name identifies the input in logs and errors.
	Name() string

	// Load returns the current stored content.
	Load() (string, error)

	// Save stores text.
	Save(text string) error

	// Dispose releases the input. Later calls fail with ErrInputDisposed.
	Dispose() error
}

// FileInput is an Input backed by a file on disk.
type FileInput struct {
	path     string
	perm     fs.FileMode
	disposed atomic.Bool
}

// NewFileInput creates an input for path. The path is made absolute.
func NewFileInput(path string) (*FileInput, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	return &FileInput{path: abs, perm: 0644}, nil
}

// Name returns the absolute file path.
func (f *FileInput) Name() string {
	return f.path
}

// Path returns the absolute file path.
func (f *FileInput) Path() string {
	return f.path
}

// Load reads the file.
func (f *FileInput) Load() (string, error) {
	if f.disposed.Load() {
		return "", ErrInputDisposed
	}
	data, err := os.ReadFile(f.path)
	if err != nil {
		return "", err
	}
	if info, err := os.Stat(f.path); err == nil {
		f.perm = info.Mode().Perm()
	}
	return string(data), nil
}

// Save writes text to a temporary file next to the target and renames it
// over the target, so readers never observe a partial file.
func (f *FileInput) Save(text string) error {
	if f.disposed.Load() {
		return ErrInputDisposed
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), "."+filepath.Base(f.path)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := io.WriteString(tmp, text); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(f.perm); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, f.path)
}

// Dispose marks the input disposed.
func (f *FileInput) Dispose() error {
	f.disposed.Store(true)
	return nil
}

// StringInput is an in-memory Input, used for standard input and scratch
// documents.
type StringInput struct {
	mu       sync.Mutex
	name     string
	text     string
	saves    int
	disposed bool
}

// NewStringInput creates an in-memory input holding text.
func NewStringInput(name, text string) *StringInput {
	return &StringInput{name: name, text: text}
}

// NewReaderInput reads r to the end into a StringInput.
func NewReaderInput(name string, r io.Reader) (*StringInput, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return NewStringInput(name, string(data)), nil
}

// Name returns the input name.
func (s *StringInput) Name() string {
	return s.name
}

// Load returns the stored text.
func (s *StringInput) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed {
		return "", ErrInputDisposed
	}
	return s.text, nil
}

// Save replaces the stored text.
func (s *StringInput) Save(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed {
		return ErrInputDisposed
	}
	s.text = text
	s.saves++
	return nil
}

// Set replaces the stored text without counting a save, as an external
// writer would.
func (s *StringInput) Set(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.text = text
}

// Saves returns how many times Save succeeded.
func (s *StringInput) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// Dispose marks the input disposed.
func (s *StringInput) Dispose() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disposed = true
	return nil
}

var (
	_ Input = (*FileInput)(nil)
	_ Input = (*StringInput)(nil)
)
