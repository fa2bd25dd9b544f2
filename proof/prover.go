// Package proof implements the Chaum-Pedersen prover and verifier math
// (spec.md sections 4.3 and 4.4), generalized across both algebraic
// flavors via the group package's interfaces. No state beyond the two
// Math bindings lives here; package session and package auth own all
// mutable records.
package proof

import "zkauth/group"

// Prover computes the three prover-side values of the sigma protocol:
// the secret x, the public commitment pair, and per-challenge
// responses. It is bound to one flavor's pair of generators (g, h) at
// construction.
type Prover struct {
	g, h group.Math
}

// NewProver binds a Prover to the generator Math for g and h. Both must
// be the same Flavor.
func NewProver(g, h group.Math) *Prover {
	return &Prover{g: g, h: h}
}

// DeriveSecret maps a password to x: the password bytes are
// reinterpreted as an unsigned integer and reduced mod q. This is
// intentionally not a hash or KDF (spec.md section 4.3, section 9):
// tests pin this exact mapping, and the empty password deterministically
// maps to x = 0.
func (p *Prover) DeriveSecret(password []byte) group.Scalar {
	return p.g.ScalarFromBytes(password)
}

// PublicCommitments computes (y1, y2) = (g^x, h^x), or their additive
// EC equivalents, for a secret x. This is also used to turn a freshly
// sampled k into the ephemeral commitment pair (r1, r2): Ephemeral is a
// thin wrapper over the same computation.
func (p *Prover) PublicCommitments(x group.Scalar) (y1, y2 group.Element) {
	return p.g.Mul(x), p.h.Mul(x)
}

// Ephemeral samples a fresh k in [1, q-1] and computes its commitment
// pair (r1, r2), returning k alongside so the caller can later compute
// Respond with it.
func (p *Prover) Ephemeral() (k group.Scalar, r1, r2 group.Element, err error) {
	k, err = p.g.RandomScalar()
	if err != nil {
		return nil, nil, nil, err
	}
	r1, r2 = p.PublicCommitments(k)
	return k, r1, r2, nil
}

// Respond computes the response scalar s from (k, c, x) using this
// flavor's sign convention: DL uses s = (k - c*x) mod q; EC uses
// s = (k + c*x) mod q (spec.md section 3). Which convention applies is
// determined by p.g.Flavor(); the matching reconstruction lives in
// Verify.
func (p *Prover) Respond(k, c, x group.Scalar) group.Scalar {
	prod := p.g.MulScalars(c, x)
	switch p.g.Flavor() {
	case group.DiscreteLogarithm:
		return p.g.Sub(k, prod)
	default:
		return p.g.Add(k, prod)
	}
}
