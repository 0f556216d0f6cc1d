// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package identity derives a best-effort voter identity from inbound
request metadata.

An Identity pairs two independent weak signals:

  - Addr: the network address, preferring the first hop of an
    X-Forwarded-For chain, then X-Real-IP, then the direct peer
    address with its port stripped. If none is available the
    sentinel "unknown" is used — extraction never fails.
  - Fingerprint: an opaque string supplied by the client.

Neither signal is strong on its own (a shared NAT defeats the address,
private browsing defeats the fingerprint); the admission layer requires
both to be fresh, which raises the cost of repeat voting without
requiring accounts. The fingerprint is client-trusted and spoofable —
a known, accepted weakness of this design.

FromRequest is a pure function with no shared state and is safe to
call concurrently.
*/
package identity
