// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package admission decides whether a vote attempt becomes a committed
vote.

# Checks

Check runs four checks in order and stops at the first failure:

 1. invalid-option: the option index is outside the poll's range
 2. duplicate-address: a prior accepted vote for this poll used the
    same (hashed) address
 3. duplicate-fingerprint: a prior accepted vote for this poll used
    the same fingerprint
 4. rate-limited: an accepted vote from this address landed inside
    the trailing window (default 5 minutes)

Address and fingerprint are two independent weak identity signals; a
shared NAT defeats one and cleared storage defeats the other, so both
must be fresh. The rate-limit check only gates by address, matching
checks 2 and 4 to network identity.

# Atomicity

Check takes a Querier rather than a *sql.DB so the caller can run it
inside the same transaction that inserts the vote. The store holds a
per-poll lock around check-then-insert, and the vote table's UNIQUE
constraints catch anything that still slips through. A reject performs
zero storage mutation.
*/
package admission
