// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "strings"

// =============================================================================
// MODEL INFO TYPE
// =============================================================================

// ModelInfo describes a selectable Gemini model.
// This is used for the model selector in the sidebar and the /model command.
type ModelInfo struct {
	// ID is the model identifier used in API calls
	ID string `json:"id"`

	// Name is the human-readable display name
	Name string `json:"name"`

	// Tier categorizes the model's capability level
	Tier string `json:"tier"`

	// Vision reports whether the model accepts image parts
	Vision bool `json:"vision"`

	// Description is a brief explanation of the model's strengths
	Description string `json:"description"`
}

// =============================================================================
// MODEL REGISTRY
// =============================================================================

// Models is the registry of known Gemini models keyed by ID.
var Models = map[string]ModelInfo{
	"gemini-1.5-flash": {
		ID:          "gemini-1.5-flash",
		Name:        "Gemini 1.5 Flash",
		Tier:        "Fast",
		Vision:      true,
		Description: "Fast multimodal model for everyday chat",
	},
	"gemini-1.5-pro": {
		ID:          "gemini-1.5-pro",
		Name:        "Gemini 1.5 Pro",
		Tier:        "Powerful",
		Vision:      true,
		Description: "Stronger reasoning over long inputs",
	},
	"gemini-2.0-flash": {
		ID:          "gemini-2.0-flash",
		Name:        "Gemini 2.0 Flash",
		Tier:        "Fast",
		Vision:      true,
		Description: "Newer generation flash model",
	},
}

// GetModelInfo returns the registry entry for id.
// Unknown IDs return a minimal ModelInfo and false.
func GetModelInfo(id string) (ModelInfo, bool) {
	if info, ok := Models[strings.TrimSpace(id)]; ok {
		return info, true
	}
	return ModelInfo{ID: id, Name: id, Tier: "Custom"}, false
}

// DisplayName returns the registry name for id, or id itself.
func DisplayName(id string) string {
	info, _ := GetModelInfo(id)
	return info.Name
}
