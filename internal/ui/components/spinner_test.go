// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/xspark/internal/ui/styles"
)

func TestThinkingIndicator_Lifecycle(t *testing.T) {
	ti := NewThinkingIndicator(styles.NewTheme("dark"))

	if ti.IsActive() || ti.View() != "" {
		t.Fatal("new indicator should be inactive and render nothing")
	}

	if cmd := ti.Start(); cmd == nil {
		t.Error("Start() should return a tick command")
	}
	if !ti.IsActive() {
		t.Error("indicator should be active after Start()")
	}
	if !strings.Contains(ti.View(), "Thinking...") {
		t.Errorf("View() = %q, want thinking label", ti.View())
	}

	ti.Stop()
	if ti.View() != "" {
		t.Error("stopped indicator should render nothing")
	}
	if _, cmd := ti.Update(nil); cmd != nil {
		t.Error("stopped indicator should not keep ticking")
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0s"},
		{42 * time.Second, "42s"},
		{61 * time.Second, "1m01s"},
		{10*time.Minute + 5*time.Second, "10m05s"},
	}
	for _, tt := range tests {
		if got := formatElapsed(tt.d); got != tt.want {
			t.Errorf("formatElapsed(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
