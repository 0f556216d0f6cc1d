// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store owns durable poll and vote state.

# Operations

	poll, err := st.CreatePoll(ctx, question, options)
	poll, err := st.GetPoll(ctx, pollID)
	counts, total, err := st.GetTally(ctx, pollID)
	snap, err := st.Snapshot(ctx, pollID)
	counts, total, err := st.CommitVote(ctx, pollID, optionIdx, identity)

Polls are immutable after creation and votes are append-only; there
are no update or delete operations.

# The Admission Unit

CommitVote is the critical section. For one poll it is fully
serialized: a per-poll mutex wraps a single transaction that runs the
admission checks, inserts the vote, and reads the fresh tally. No
other commit for the same poll can observe a partial state, which is
what makes the duplicate checks sound under concurrency. Commits for
different polls use different mutexes and never contend.

The vote table's UNIQUE constraints are a second line of defense: if a
conflicting insert still happens it fails, and the store maps the
violation to the matching duplicate-* rejection so callers cannot tell
the two paths apart.

Tally reads (GetTally, Snapshot) are deliberately not serialized
against commits; a display read may be slightly stale and is corrected
by the next broadcast.

# Timeouts

Every operation takes a context; callers bound store latency by
passing a deadline (the handlers use cfg.StoreTimeout).
*/
package store
