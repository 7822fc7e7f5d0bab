// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides reusable widgets for the fxrun TUI.

# Components

Selector (selector.go) - Searchable currency dropdown. Favorites are listed
first under their own heading, the rest follow alphabetically. Typing
filters both groups. The selector never changes its own selection: it emits
SelectedMsg and ToggleFavoriteMsg and the parent decides.

Spinner (spinner.go) - ASCII busy indicator shown while the currency list
or a rate is being fetched.

# Keyboard

	enter/space/down  open the list
	up/down           move (wraps at both ends)
	enter             choose the highlighted code
	esc               close without changing the selection
	ctrl+t            star or unstar the highlighted code
*/
package components
