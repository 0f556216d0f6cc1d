// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the pollwire API.

# Handler Types

Each handler is a struct with store, hub, and config dependencies,
created via constructor functions:

  - PollHandler: Poll creation and retrieval
  - VoteHandler: Vote submission (the per-vote coordinator)
  - LiveHandler: WebSocket live-tally channel

# Voting Flow

	POST /polls                 → CreatePoll (returns poll_id)
	GET  /polls/{id}            → GetPoll (question, options, live tally)
	POST /polls/{id}/votes      → CastVote
	GET  /polls/{id}/live       → Watch (WebSocket)

CastVote runs the whole admission pipeline: request shape checks,
identity extraction from address headers and the client fingerprint,
then store.CommitVote, which serializes the admission checks and the
insert per poll. On success the handler publishes the post-commit
tally to the poll's subscribers and returns the same tally to the
voter. On rejection the response carries accepted=false and one of
the reason strings from the models package.

# Live Channel

Watch upgrades to a WebSocket and registers the connection with the
room hub. The client receives a resync event immediately and an
update event for every vote accepted while it stays connected. The
server reads and discards client frames; closing the socket (cleanly
or not) unsubscribes the connection.
*/
package handlers
