// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FileExt returns the lower-cased extension of a client-supplied file name,
// including the dot. Directory components are ignored.
func FileExt(filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	if base == "." || base == ".." || base == "/" {
		return ""
	}
	return strings.ToLower(filepath.Ext(base))
}

// RandomFileName returns a fresh UUID-based name that keeps the original
// extension, so uploads never collide and never reuse client names.
func RandomFileName(original string) string {
	return uuid.NewString() + FileExt(original)
}

// SafeJoin joins name onto dir and fails if the result escapes dir.
func SafeJoin(dir, name string) (string, error) {
	absDir, err := filepath.Abs(filepath.Clean(dir))
	if err != nil {
		return "", fmt.Errorf("invalid base path: %w", err)
	}
	full := filepath.Join(absDir, name)
	if full != absDir && !strings.HasPrefix(full, absDir+string(filepath.Separator)) {
		return "", fmt.Errorf("path traversal detected: %q escapes %s", name, dir)
	}
	return full, nil
}
