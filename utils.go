package bucketctl

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// ObjectName resolves localPath to an absolute path and derives the object
// name from its base name. Directory structure is dropped, so files with
// the same base name in different directories map to the same object.
func ObjectName(localPath string) (absPath, name string, err error) {
	if strings.TrimSpace(localPath) == "" {
		return "", "", ErrEmptyPath
	}

	absPath, err = filepath.Abs(localPath)
	if err != nil {
		return "", "", fmt.Errorf("resolve path: %w", err)
	}

	return absPath, filepath.Base(absPath), nil
}

// ParseChoice converts a 1-based selection typed by the user into a
// 0-based index into a listing of n entries.
func ParseChoice(input string, n int) (int, error) {
	choice, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidChoice, input)
	}

	idx := choice - 1
	if idx < 0 || idx >= n {
		return 0, fmt.Errorf("%w: %d is out of range 1-%d", ErrNoSuchObject, choice, n)
	}

	return idx, nil
}
