// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the pollwire API server.

pollwire lets anonymous users create a poll, share a link, and watch
vote tallies update live across every connected viewer. Votes are
deduplicated per poll by two weak identity signals (network address
and client fingerprint) plus a per-address rate-limit window.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=polls.db ADDR_HASH_SALT=secret go run main.go

Or with flags:

	go run main.go -p 3319 -d polls.db --addr-salt secret

# Configuration

Required settings:

  - DATABASE_URL (-d): Database connection string (SQLite path or
    Postgres URL)
  - ADDR_HASH_SALT (--addr-salt): Secret for voter address hashing

Optional settings:

  - PORT (-p): Server port (default: 3319)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - VOTE_WINDOW (--vote-window): Per-address rate-limit window
    (default: 5m)
  - STORE_TIMEOUT (--store-timeout): Bound on store operations
    (default: 5s)

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (polls, voting, live channel)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Request/response types and live events
  - identity: Voter identity extraction (address + fingerprint)
  - admission: Vote admission checks (dedup + rate limit)
  - store: Durable polls/votes with per-poll serialized commits
  - room: Per-poll subscriber sets and update fanout
  - auth: Address hashing and ID helpers
  - db: Schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
