// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"google.golang.org/genai"

	"github.com/jeranaias/xspark/internal/model"
)

// HistoryFunc converts prior session messages into chat history.
type HistoryFunc func(prior []*model.Message) []*genai.Content

// BuildHistory maps prior messages to Gemini contents in order.
//
// Messages that carried an image are left out: image turns are answered
// statelessly and never become part of the text conversation. The
// assistant role is sent as the Gemini "model" role.
func BuildHistory(prior []*model.Message) []*genai.Content {
	history := make([]*genai.Content, 0, len(prior))
	for _, msg := range prior {
		if msg == nil || msg.HasImage() {
			continue
		}
		history = append(history, genai.NewContentFromText(msg.Text, roleFor(msg.Role)))
	}
	return history
}

func roleFor(r model.Role) genai.Role {
	if r == model.RoleAssistant {
		return genai.RoleModel
	}
	return genai.RoleUser
}
