// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package room maintains the per-poll subscriber sets and fans tally
updates out to them.

# Protocol

Two events flow to subscribers:

  - resync: the poll's full snapshot (question, options, tally,
    total), sent exactly once per Subscribe call. This is the
    catch-up path for late joins and reconnects, which makes missed
    update broadcasts harmless.
  - update: just the fresh tally and total, sent to every current
    subscriber when a vote commits.

# Lifecycle and Concurrency

Rooms are created on first subscribe and deleted when their last
subscriber leaves. The hub lock covers only membership bookkeeping;
each room has its own mutex, so fanout for one poll never blocks
traffic for another.

A subscriber whose Send fails is pruned on the spot. Failure to
deliver to some subscribers is logged and otherwise ignored — the
vote that triggered the broadcast is already durable, and the client's
own HTTP response carried the authoritative tally.

Subscriber state lives only in memory. On restart the sets are empty
and reconnecting clients rebuild them, each receiving a resync.
*/
package room
