// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations, messages,
// and todos synchronized with the Nanami backend.
//
// A Conversation owns an ordered list of Messages. Messages are mutable
// while a response is streaming in (IsStreaming true) and are finalized when
// the stream completes or is interrupted. Todos belong to the backend; the
// client holds a per-conversation view that is replaced or merged from
// server snapshots and deltas.
package model
