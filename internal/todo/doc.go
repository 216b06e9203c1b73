// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package todo reconciles the active conversation's task list.
//
// Updates arrive from two independent sources: inline, embedded in
// tool-result events of the chat stream, and out-of-band, from a push or
// polling feed. Payload shape decides the merge: a full list ({"todos": [...]})
// is an authoritative refresh that replaces local state, a single item
// ({"todo": {...}}) is an incremental delta merged by ID. Feed snapshots are
// always full replacements (last-write-wins; the wire carries no version
// token to compare against).
//
// On conversation switch the old feed is torn down, a fresh snapshot is
// fetched synchronously, and only then is a new feed opened, so task lists
// never bleed between conversations.
package todo
