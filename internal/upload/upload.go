// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package upload validates uploaded files and stores them under random names
// in the uploads directory.
package upload

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // WebP decoder

	"github.com/olegiv/sitedesk/internal/util"
)

// Upload kinds.
const (
	KindImage = "image"
	KindFile  = "file"
)

// Image MIME types accepted by image uploads.
const (
	MimeTypeJPEG = "image/jpeg"
	MimeTypePNG  = "image/png"
	MimeTypeGIF  = "image/gif"
	MimeTypeWebP = "image/webp"
)

// jpegQuality is used when JPEGs are re-encoded to drop their metadata.
const jpegQuality = 92

var (
	// ErrTooLarge is returned when a file exceeds the size limit.
	ErrTooLarge = errors.New("file is too large")
	// ErrUnsupportedType is returned for extensions or contents not allowed for the kind.
	ErrUnsupportedType = errors.New("file type is not allowed")
	// ErrInvalidImage is returned when an image cannot be decoded.
	ErrInvalidImage = errors.New("file is not a valid image")
)

var imageExts = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

var documentExts = []string{
	".pdf", ".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx",
	".odt", ".ods", ".txt", ".csv", ".rtf", ".zip", ".mp3", ".mp4",
}

// Saved describes a stored upload.
type Saved struct {
	Name         string // random file name inside the uploads directory
	OriginalName string
	MimeType     string
	Size         int64
	Width        int // images only
	Height       int
}

// Store writes uploads into a directory.
type Store struct {
	dir      string
	maxBytes int64
}

// NewStore creates a Store writing into dir and refusing files over maxBytes.
func NewStore(dir string, maxBytes int64) *Store {
	return &Store{dir: dir, maxBytes: maxBytes}
}

// Dir returns the uploads directory.
func (s *Store) Dir() string {
	return s.dir
}

// MaxBytes returns the size limit.
func (s *Store) MaxBytes() int64 {
	return s.maxBytes
}

// Save validates r against kind and writes it under a fresh random name.
// Images must decode; JPEGs are auto-oriented and re-encoded without EXIF.
func (s *Store) Save(r io.Reader, originalName, kind string) (Saved, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return Saved{}, fmt.Errorf("reading upload: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return Saved{}, ErrTooLarge
	}
	if len(data) == 0 {
		return Saved{}, fmt.Errorf("%w: empty file", ErrUnsupportedType)
	}

	ext := util.FileExt(originalName)
	saved := Saved{OriginalName: filepath.Base(strings.ReplaceAll(originalName, "\\", "/"))}

	switch {
	case slices.Contains(imageExts, ext):
		var format string
		data, format, err = s.prepareImage(data, &saved)
		if err != nil {
			return Saved{}, err
		}
		// The stored extension follows the sniffed bytes, not the client name.
		ext = formatToExt(format)
	case kind == KindFile && slices.Contains(documentExts, ext):
		saved.MimeType = DetectMimeType(data)
	default:
		return Saved{}, ErrUnsupportedType
	}

	name := util.RandomFileName("upload" + ext)
	path, err := util.SafeJoin(s.dir, name)
	if err != nil {
		return Saved{}, err
	}
	if err := writeFile(path, data); err != nil {
		return Saved{}, err
	}

	saved.Name = name
	saved.Size = int64(len(data))
	return saved, nil
}

// prepareImage checks that data really is a supported image and strips JPEG metadata.
func (s *Store) prepareImage(data []byte, saved *Saved) ([]byte, string, error) {
	format := detectFormat(data)
	if format == "" {
		return nil, "", ErrUnsupportedType
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	bounds := img.Bounds()
	saved.Width = bounds.Dx()
	saved.Height = bounds.Dy()
	saved.MimeType = formatToMimeType(format)

	if format != "jpeg" {
		return data, format, nil
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, "", fmt.Errorf("encoding image: %w", err)
	}
	return buf.Bytes(), format, nil
}

// DetectMimeType sniffs the MIME type of data without parameters.
func DetectMimeType(data []byte) string {
	contentType := http.DetectContentType(data)
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = contentType[:idx]
	}
	return contentType
}

// detectFormat detects the image format from raw bytes.
func detectFormat(data []byte) string {
	contentType := http.DetectContentType(data)
	// Explicitly reject TIFF (CVE-2023-36308 in disintegration/imaging)
	if strings.Contains(contentType, "tiff") {
		return ""
	}
	switch {
	case strings.Contains(contentType, "jpeg"):
		return "jpeg"
	case strings.Contains(contentType, "png"):
		return "png"
	case strings.Contains(contentType, "gif"):
		return "gif"
	case strings.Contains(contentType, "webp"):
		return "webp"
	default:
		return ""
	}
}

func formatToExt(format string) string {
	if format == "jpeg" {
		return ".jpg"
	}
	return "." + format
}

func formatToMimeType(format string) string {
	switch format {
	case "jpeg":
		return MimeTypeJPEG
	case "png":
		return MimeTypePNG
	case "gif":
		return MimeTypeGIF
	case "webp":
		return MimeTypeWebP
	default:
		return "application/octet-stream"
	}
}

// writeFile creates the directory if needed and writes data through a
// temporary file so a partial upload is never visible.
func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating uploads directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".upload-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("closing upload: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("chmod upload: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("saving upload: %w", err)
	}
	return nil
}
