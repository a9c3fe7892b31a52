// Package utils provides small helpers shared by the CLI.
package utils

import (
	"os"

	"github.com/mitchellh/go-homedir"
)

// ExpandPath expands a leading tilde and environment variables in a
// file path. Paths that fail to expand are returned as-is.
func ExpandPath(path string) string {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return path
	}
	return os.ExpandEnv(expanded)
}
