// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse parses server configuration from CLI flags with
environment variable fallback.

# Settings

Required:

  - DATABASE_URL (-d): Database connection string
  - ADDR_HASH_SALT (--addr-salt): Secret salt for voter address hashing

Optional:

  - PORT (-p): Server port (default: 3319)
  - DATABASE_TYPE (-t): "sqlite" or "postgres" (default: sqlite)
  - VOTE_WINDOW (--vote-window): Trailing window for the per-address
    vote rate limit (default: 5m)
  - STORE_TIMEOUT (--store-timeout): Bound on any single store
    operation (default: 5s)

Flags take precedence over environment variables. A .env file, if
present, is loaded by main before parsing.
*/
package cliparse
