package proof

import (
	"crypto/subtle"

	"zkauth/group"
)

// Verifier recomputes commitments from a submitted response and
// accepts or rejects a proof (spec.md section 4.4). It never handles
// secret material: only y1, y2, r1, r2, c, s cross this boundary.
type Verifier struct {
	g, h group.Math
}

// NewVerifier binds a Verifier to the same generator Math a Prover of
// the same flavor would use.
func NewVerifier(g, h group.Math) *Verifier {
	return &Verifier{g: g, h: h}
}

// Verify reports whether (r1, r2) is the correct ephemeral commitment
// for challenge c and response s against public commitments (y1, y2).
// DL reconstructs r_i = g^s * y_i^c mod p; EC reconstructs
// R_i = s*G - c*Y_i. group.Math.Combine implements whichever
// reconstruction matches its own flavor, so this function is flavor-
// agnostic. The comparison uses a constant-time byte compare over the
// canonical encodings, following the teacher's subtle.ConstantTimeCompare
// discipline for checking derived values.
func (v *Verifier) Verify(y1, y2, r1, r2 group.Element, c, s group.Scalar) bool {
	want1 := v.g.Combine(s, c, y1)
	want2 := v.h.Combine(s, c, y2)
	return constantTimeEqual(want1, r1) && constantTimeEqual(want2, r2)
}

func constantTimeEqual(a, b group.Element) bool {
	return subtle.ConstantTimeCompare([]byte(a.Encode()), []byte(b.Encode())) == 1
}
