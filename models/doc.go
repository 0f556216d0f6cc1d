// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the request, response, and domain types shared
across the pollwire server.

# Request/Response Types

JSON-tagged structs for the HTTP API:

  - CreatePollRequest/CreatePollResponse: Poll creation
  - CastVoteRequest/CastVoteResponse: Vote submission
  - ErrorResponse: Standard error envelope

# Domain Types

  - Poll: A question with an immutable ordered option list
  - Snapshot: Full poll state (question, options, tally, total)

# Live Events

Two event types flow over the WebSocket channel:

  - ResyncEvent: Full snapshot, sent once when a connection subscribes
  - UpdateEvent: Fresh tally and total, sent on every accepted vote

# Rejection Reasons

Vote rejections carry one of the Reason* constants, matching the
admission check that failed: invalid-option, duplicate-address,
duplicate-fingerprint, or rate-limited.
*/
package models
