// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides the small cryptographic helpers the server needs.

# Address Hashing

Voter network addresses are never stored raw. HashAddr produces a
salted HMAC-SHA256 hash truncated to 64 bits:

	hashed := auth.HashAddr("203.0.113.7", cfg.AddrHashSalt)

Hashing preserves equality, so duplicate-address detection works on
hashes exactly as it would on raw addresses, without keeping
personally identifying data in the vote table.

# ID Generation

GenerateID returns a random hex string and is used for short
connection identifiers in logs. Poll identifiers use google/uuid
instead (see handlers.PollHandler).
*/
package auth
