// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package attach

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/xspark/internal/config"
)

func testConfig() config.AttachmentConfig {
	return config.Default().Attachments
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h)), nil))
	return buf.Bytes()
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0600))
	return path
}

func TestLoad_PNG(t *testing.T) {
	path := writeFile(t, "cat.png", pngBytes(t, 64, 48))

	img, err := Load(path, testConfig())
	require.NoError(t, err)
	assert.Equal(t, "cat.png", img.Name)
	assert.Equal(t, "image/png", img.MIME)
	assert.Equal(t, 64, img.Width)
	assert.Equal(t, 48, img.Height)
	assert.Equal(t, "cat.png, 64x48, image/png", img.Describe())
}

func TestLoad_JPEGWithUppercaseExtension(t *testing.T) {
	path := writeFile(t, "photo.JPG", jpegBytes(t, 10, 20))

	img, err := Load(path, testConfig())
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", img.MIME)
	assert.Equal(t, 10, img.Width)
}

func TestLoad_Rejections(t *testing.T) {
	cfg := testConfig()

	t.Run("unsupported extension", func(t *testing.T) {
		path := writeFile(t, "anim.gif", []byte("GIF89a"))
		_, err := Load(path, cfg)
		assert.ErrorIs(t, err, ErrUnsupportedType)
	})

	t.Run("not an image", func(t *testing.T) {
		path := writeFile(t, "fake.png", []byte("definitely not a png"))
		_, err := Load(path, cfg)
		assert.ErrorIs(t, err, ErrNotImage)
	})

	t.Run("too large", func(t *testing.T) {
		small := cfg
		small.MaxBytes = 10
		path := writeFile(t, "big.png", pngBytes(t, 32, 32))
		_, err := Load(path, small)
		assert.ErrorIs(t, err, ErrTooLarge)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.png"), cfg)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("empty path", func(t *testing.T) {
		_, err := Load("  ", cfg)
		assert.Error(t, err)
	})
}

func TestAccepts(t *testing.T) {
	cfg := testConfig()
	assert.True(t, Accepts("png", cfg))
	assert.True(t, Accepts(".WEBP", cfg))
	assert.False(t, Accepts("gif", cfg))

	cfg.Extensions = []string{"png"}
	assert.False(t, Accepts("jpg", cfg))
}
