// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package attach loads image files for upload with a prompt.
package attach

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"

	_ "golang.org/x/image/webp"

	"github.com/jeranaias/xspark/internal/config"
	"github.com/jeranaias/xspark/internal/model"
)

// Sentinel errors for easy checking.
var (
	ErrUnsupportedType = errors.New("unsupported image type")
	ErrTooLarge        = errors.New("image too large")
	ErrNotImage        = errors.New("file is not a readable image")
)

// mimeByExt maps accepted extensions to the MIME type sent upstream.
var mimeByExt = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"webp": "image/webp",
}

// Load reads path and returns it as an attachment. The extension must be
// listed in cfg.Extensions and the file must decode as an image.
func Load(path string, cfg config.AttachmentConfig) (*model.Image, error) {
	path = expandHome(strings.TrimSpace(path))
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrUnsupportedType)
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if !Accepts(ext, cfg) {
		return nil, fmt.Errorf("%w: .%s (accepted: %s)", ErrUnsupportedType, ext, strings.Join(cfg.Extensions, ", "))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrNotImage, path)
	}
	if cfg.MaxBytes > 0 && info.Size() > cfg.MaxBytes {
		return nil, fmt.Errorf("%w: %d bytes (limit %d)", ErrTooLarge, info.Size(), cfg.MaxBytes)
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return FromBytes(filepath.Base(path), data, cfg)
}

// FromBytes builds an attachment from already loaded data.
func FromBytes(name string, data []byte, cfg config.AttachmentConfig) (*model.Image, error) {
	if cfg.MaxBytes > 0 && int64(len(data)) > cfg.MaxBytes {
		return nil, fmt.Errorf("%w: %d bytes (limit %d)", ErrTooLarge, len(data), cfg.MaxBytes)
	}

	ic, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotImage, err)
	}

	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		mime = mimeByExt[format]
	}
	if !Accepts(format, cfg) && !slices.ContainsFunc(cfg.Extensions, func(e string) bool { return mimeByExt[strings.ToLower(e)] == mime }) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, format)
	}

	return &model.Image{
		Name:   name,
		MIME:   mime,
		Data:   data,
		Width:  ic.Width,
		Height: ic.Height,
	}, nil
}

// Accepts reports whether ext (without dot) is an allowed extension.
func Accepts(ext string, cfg config.AttachmentConfig) bool {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if _, known := mimeByExt[ext]; !known {
		return false
	}
	return slices.ContainsFunc(cfg.Extensions, func(e string) bool {
		return strings.EqualFold(strings.TrimPrefix(e, "."), ext)
	})
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
