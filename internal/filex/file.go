// Package filex holds helpers for files the CLI writes next to its working
// directory.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureSubdDir creates dirName under the current working directory if
// needed and returns its absolute path.
func EnsureSubdDir(dirName string) (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getwd: %w", err)
	}

	dir := filepath.Join(cwd, dirName)

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// CreateInSubdir creates (or truncates) fileName inside dirName and returns
// the open file. Only the base name of fileName is used.
func CreateInSubdir(dirName, fileName string) (*os.File, error) {
	dir, err := EnsureSubdDir(dirName)
	if err != nil {
		return nil, err
	}

	base := filepath.Base(fileName)
	if base == "." || base == string(filepath.Separator) {
		return nil, fmt.Errorf("invalid file name %q", fileName)
	}

	path := filepath.Join(dir, base)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	return f, nil
}
