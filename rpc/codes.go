// Package rpc is the wire surface (spec.md section 4.7 and section 6):
// four operations that decode decimal-string requests through package
// group, call package auth, and encode decimal-string responses. It
// carries no business logic of its own. The gRPC transport framing
// itself is out of scope (spec.md section 1) — Service's methods are
// plain Go calls a transport would dispatch into.
package rpc

import "zkauth/internal/zkerr"

// Status is the wire-level outcome of an RPC call: a status Code plus
// an optional human-readable message. Message SHOULD NOT include secret
// material; it MAY include auth_id and user (spec.md section 7).
type Status struct {
	Code    zkerr.Code
	Message string
}

// OK reports whether the call succeeded.
func (s Status) OK() bool { return s.Code == zkerr.CodeOK }

func statusOf(err error) Status {
	if err == nil {
		return Status{Code: zkerr.CodeOK}
	}
	return Status{Code: zkerr.CodeOf(err), Message: err.Error()}
}
