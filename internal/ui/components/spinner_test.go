// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func TestNewSpinner(t *testing.T) {
	s := NewSpinner()

	if s.message != "Loading" {
		t.Errorf("NewSpinner() message = %q, want %q", s.message, "Loading")
	}
	if s.IsActive() {
		t.Error("NewSpinner() should not be active initially")
	}
	if got := s.spinner.Spinner.Frames; len(got) != 4 || got[0] != "|" {
		t.Errorf("NewSpinner() frames = %v, want line frames", got)
	}
}

func TestSpinner_StartStop(t *testing.T) {
	s := NewSpinner()
	s.SetMessage("Converting")

	if cmd := s.Start(); cmd == nil {
		t.Fatal("Start() should return a tick command")
	}
	if cmd := s.Start(); cmd != nil {
		t.Error("Start() on a running spinner should not schedule another tick")
	}
	if !s.IsActive() {
		t.Fatal("spinner should be active after Start()")
	}
	if view := s.View(); !strings.Contains(view, "Converting") {
		t.Errorf("View() = %q, want it to contain the message", view)
	}

	s.Stop()
	if s.View() != "" {
		t.Error("View() of a stopped spinner should be empty")
	}
}

func TestSpinner_UpdateWhenInactive(t *testing.T) {
	s := NewSpinner()
	_, cmd := s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("inactive spinner should not produce commands")
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0s"},
		{5 * time.Second, "5s"},
		{59 * time.Second, "59s"},
		{60 * time.Second, "1m 0s"},
		{123 * time.Second, "2m 3s"},
	}
	for _, tt := range tests {
		if got := formatElapsed(tt.d); got != tt.want {
			t.Errorf("formatElapsed(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
