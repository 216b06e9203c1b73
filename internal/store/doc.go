// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store owns conversation state and its persistence.
//
// The Store holds the conversation list, the active-conversation pointer,
// and the theme preference. Mutation goes through explicit methods; every
// mutating method synchronously rewrites the whole persisted state as one
// JSON blob (write-through, single writer, atomic rename). State surviving
// a restart therefore never lags the in-memory view by more than the last
// completed operation, and rendering state is always reconstructible from
// the store alone.
package store
