// Package diskfile provides the small filesystem surface bucketlogctl needs
// around a store's path: checking whether a file exists before deciding
// between "open" and "new".
//
// It is adapted from the teacher's internal/fs package, trimmed to four
// methods (Stat, Exists, MkdirAll, Rename), of which bucketlogctl calls
// Exists; bucketlog itself owns the file once opened and does not use this
// package.
package diskfile

import "os"

// FS is the filesystem surface bucketlogctl depends on, so that its flows
// can be tested against a fake instead of the real disk.
type FS interface {
	// Stat returns file info. See [os.Stat].
	Stat(path string) (os.FileInfo, error)

	// Exists reports whether path exists. Returns (false, nil) if not
	// found, (false, err) on any other Stat failure.
	Exists(path string) (bool, error)

	// MkdirAll creates a directory and all missing parents. See
	// [os.MkdirAll]. No error if the directory already exists.
	MkdirAll(path string, perm os.FileMode) error

	// Rename moves oldpath to newpath. See [os.Rename].
	Rename(oldpath, newpath string) error
}

// Real is the production FS, backed directly by the os package.
type Real struct{}

// NewReal returns a [Real] filesystem.
func NewReal() Real { return Real{} }

func (Real) Stat(path string) (os.FileInfo, error) {
	return os.Stat(path)
}

func (Real) Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}

	if os.IsNotExist(err) {
		return false, nil
	}

	return false, err
}

func (Real) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

func (Real) Rename(oldpath, newpath string) error {
	return os.Rename(oldpath, newpath)
}

var _ FS = Real{}
