package tracker

// Filesystem is the file access the store needs for its data file.
type Filesystem interface {
	// ReadFile returns the contents of path. A missing file yields an error
	// matching os.ErrNotExist.
	ReadFile(path string) ([]byte, error)

	// WriteFile replaces path with data atomically, creating parent
	// directories as needed. On failure the previous contents are intact.
	WriteFile(path string, data []byte) error

	// Exists reports whether path exists.
	Exists(path string) (bool, error)

	// Rename moves oldPath to newPath, replacing newPath if it exists.
	Rename(oldPath, newPath string) error
}
