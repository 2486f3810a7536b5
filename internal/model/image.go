// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "fmt"

// Image is an inline image attachment sent alongside a prompt.
type Image struct {
	// Name is the base file name shown in the transcript.
	Name string `json:"name"`

	// MIME is the detected content type (image/png, image/jpeg, image/webp).
	MIME string `json:"mime"`

	// Data holds the raw encoded bytes as read from disk.
	Data []byte `json:"-"`

	Width  int `json:"width"`
	Height int `json:"height"`
}

// Size returns the encoded size in bytes.
func (i *Image) Size() int {
	if i == nil {
		return 0
	}
	return len(i.Data)
}

// Describe returns a short label such as "cat.png, 640x480, image/png".
func (i *Image) Describe() string {
	if i == nil {
		return ""
	}
	if i.Width > 0 && i.Height > 0 {
		return fmt.Sprintf("%s, %dx%d, %s", i.Name, i.Width, i.Height, i.MIME)
	}
	return fmt.Sprintf("%s, %s", i.Name, i.MIME)
}
