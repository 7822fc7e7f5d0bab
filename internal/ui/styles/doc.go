// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the fxrun TUI.

# Color System (colors.go)

  - Purple - Focus ring and selector border
  - Cyan - Currency codes and key hints
  - Emerald - Converted amount
  - Amber - Notices and favorite stars
  - Rose - Errors

Every color is a lipgloss.AdaptiveColor, so the light or dark variant is
picked from the terminal background.

# Theme (theme.go)

NewTheme detects the color profile with termenv and builds the styles for
the header, the amount and currency fields, the selector list and the
result block. The "dark" and "light" modes skip background detection.

# Status Indicators

RenderError, RenderWarning and RenderInfo prefix messages with ASCII
indicators ([X], [!], [i]) so state does not rely on color alone.
*/
package styles
