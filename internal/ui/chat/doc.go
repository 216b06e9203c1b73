// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat is the Bubble Tea model for the nanami-tui main view.
//
// The model owns the conversation transcript, the input line, the
// conversation sidebar, and the live todo panel. Blocking work never
// happens in Update: sends, todo mutations, and title generation run as
// commands, and their results come back as messages. Stream events are
// pumped one at a time through waitEventCmd, so ordering inside a
// session is preserved by construction.
//
// Focus moves between the input line, the sidebar, and the todo panel
// with Tab. While a response is streaming the input is disabled and Esc
// aborts the in-flight exchange.
package chat
