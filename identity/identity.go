// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package identity

import (
	"net"
	"net/http"
)

// UnknownAddr is the sentinel used when no address can be determined.
const UnknownAddr = "unknown"

// Identity is the weak deduplication key for a voter: the network
// address the request arrived from plus a client-supplied fingerprint.
// Both signals are individually spoofable; they are only ever used
// together.
type Identity struct {
	Addr        string
	Fingerprint string
}

// FromRequest derives a best-effort voter identity from request
// metadata. It never fails: extraction falls through header by header
// and bottoms out at the UnknownAddr sentinel. The fingerprint is
// taken verbatim from the request body; callers must reject empty
// fingerprints before admission.
func FromRequest(r *http.Request, fingerprint string) Identity {
	return Identity{
		Addr:        clientAddr(r),
		Fingerprint: fingerprint,
	}
}

// clientAddr extracts the client network address.
// Checks X-Forwarded-For, X-Real-IP, then falls back to RemoteAddr.
func clientAddr(r *http.Request) string {
	// Check X-Forwarded-For (load balancers); take first hop in chain
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for i := 0; i < len(xff); i++ {
			if xff[i] == ',' || xff[i] == ' ' {
				return xff[:i]
			}
		}
		return xff
	}

	// Check X-Real-IP (nginx)
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	// Fall back to RemoteAddr, stripping the port if present.
	// SplitHostPort handles bracketed IPv6; a bare address (no port)
	// fails the split and passes through unchanged.
	addr := r.RemoteAddr
	if host, _, err := net.SplitHostPort(addr); err == nil {
		addr = host
	}
	if addr == "" {
		return UnknownAddr
	}
	return addr
}
