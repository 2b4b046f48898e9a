// Package main runs the in-memory HTTP relay used by shadowtalk during
// development and tests. It stores registered public keys, queues encrypted
// direct envelopes, and keeps group key distributions and message history.
//
// HTTP API
//
//	POST /users/register
//	    Store a user's public key under their username.
//
//	GET /users/lookup/{username}
//	    Return the registered public key for {username}.
//
//	DELETE /users/{username}
//	    Remove the account, its queued messages and pending events.
//
//	POST /chat/send
//	    Enqueue a direct message envelope for its recipient.
//
//	GET /chat/inbox/{username}
//	    Return and clear the queued envelopes for {username}. Envelopes
//	    whose expiry elapsed before the fetch are silently dropped.
//
//	POST /chat/groups/create
//	    Create a group from a name, member list and wrapped-key
//	    distribution.
//
//	GET /chat/groups?member={username}
//	    List the groups whose current distribution covers {username}.
//
//	GET /chat/groups/{id}/share/{username}
//	    Return the wrapped group key for one member.
//
//	POST /chat/groups/{id}/send
//	    Append a group message envelope to the group's history.
//
//	GET /chat/groups/{id}/messages
//	    Return the group's full message history.
//
//	POST /chat/groups/{id}/rotate
//	    Replace the group's wrapped-key distribution wholesale.
//
//	GET /events/{username}
//	    Long-poll for new-message signals. Held open until an event
//	    arrives or the poll timeout elapses.
//
//	GET /metrics
//	    Prometheus metrics.
//
// Behaviour
//
//   - All state is held in memory and lost on process exit.
//   - Responses are JSON. Non-2xx statuses carry a short error message.
//   - The default listen address is :8080.
//
// The relay is an untrusted middleman: it never sees plaintext or private
// keys, only ciphertext, wrapped keys and public metadata.
package main
