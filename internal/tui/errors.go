// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"errors"
	"io/fs"
)

// humanizeFileError turns a local file system error into a short message.
func humanizeFileError(path string, err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, fs.ErrNotExist):
		return path + ": file not found"
	case errors.Is(err, fs.ErrPermission):
		return path + ": permission denied"
	}
	return path + ": " + err.Error()
}
