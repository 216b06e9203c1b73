// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package protocol decodes the Nanami chat stream.
//
// The backend answers POST /chat with a chunked text/plain body. Chunk
// boundaries carry no meaning; the unit of the protocol is the logical line.
// Each line is one of:
//
//	[meta] <payload>        metadata; payload is JSON-like, single quotes tolerated
//	[🔧 ...]                tool invocation notice, informational only
//	[✓ <tool>]: <json>      completed tool result with a strict JSON payload
//	anything else           literal assistant text
//
// LineTokenizer reassembles logical lines from arbitrarily split fragments.
// Classify maps one logical line to exactly one Event. Classification is an
// ordered predicate chain and is total: a malformed payload degrades the
// event to a lower-fidelity kind, it never fails the stream.
package protocol
