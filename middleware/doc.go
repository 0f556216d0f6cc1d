// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and response helpers.

# Middleware

  - WithLogging: Logs request start/completion with duration
  - CORS: Allows cross-origin requests (poll pages embed anywhere)

# Helpers

  - JSONResponse: Writes a JSON response with status code
  - ErrorResponse: Writes the standard error envelope
  - ParseJSONBody: Decodes a JSON request body

Voter address extraction lives in the identity package, not here; it
is part of vote admission, not generic middleware.
*/
package middleware
