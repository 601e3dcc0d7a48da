package storage

import "io"

// Storage persists processed avatar images.
type Storage interface {
	// Save writes the content under the given file name and returns the
	// public URL path clients fetch it from.
	Save(filename string, reader io.Reader) (string, error)
	Delete(filename string) error
}
