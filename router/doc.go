// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines the HTTP routes using Go 1.22+ method routing.

# Routes

	GET  /health               Health check with uptime
	POST /polls                Create a poll
	GET  /polls/{id}           Poll question, options, live tally
	POST /polls/{id}/votes     Cast a vote
	GET  /polls/{id}/live      WebSocket live tally channel
	GET  /                     API banner

NewRouter also owns construction of the store and the room hub, so
every handler shares one instance of each.
*/
package router
