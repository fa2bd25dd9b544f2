package proof

import (
	"math/big"
	"testing"

	"zkauth/group"
)

// toy parameters from spec.md section 8, scenario S1: p=23, q=11, g=4,
// h=9.
func toyDL() (gMath, hMath group.Math) {
	p := big.NewInt(23)
	q := big.NewInt(11)
	return group.NewDL(p, q, big.NewInt(4)), group.NewDL(p, q, big.NewInt(9))
}

func TestProveAndVerifyDL(t *testing.T) {
	gMath, hMath := toyDL()
	prover := NewProver(gMath, hMath)
	verifier := NewVerifier(gMath, hMath)

	x := prover.DeriveSecret([]byte("abc"))
	y1, y2 := prover.PublicCommitments(x)

	k, r1, r2, err := prover.Ephemeral()
	if err != nil {
		t.Fatal(err)
	}
	c, err := gMath.RandomScalar()
	if err != nil {
		t.Fatal(err)
	}
	s := prover.Respond(k, c, x)

	if !verifier.Verify(y1, y2, r1, r2, c, s) {
		t.Fatal("valid proof rejected")
	}
}

func TestVerifyRejectsWrongResponse(t *testing.T) {
	gMath, hMath := toyDL()
	prover := NewProver(gMath, hMath)
	verifier := NewVerifier(gMath, hMath)

	x := prover.DeriveSecret([]byte("abc"))
	y1, y2 := prover.PublicCommitments(x)

	k, r1, r2, err := prover.Ephemeral()
	if err != nil {
		t.Fatal(err)
	}
	c, err := gMath.RandomScalar()
	if err != nil {
		t.Fatal(err)
	}
	s := prover.Respond(k, c, x)

	// spec.md scenario S2: s' = s + 1 mod q must be rejected.
	one := gMath.ScalarFromBytes([]byte{1})
	wrong := gMath.Add(s, one)

	if verifier.Verify(y1, y2, r1, r2, c, wrong) {
		t.Fatal("tampered response was accepted")
	}
}

func TestVerifyRejectsWrongChallenge(t *testing.T) {
	gMath, hMath := toyDL()
	prover := NewProver(gMath, hMath)
	verifier := NewVerifier(gMath, hMath)

	x := prover.DeriveSecret([]byte("abc"))
	y1, y2 := prover.PublicCommitments(x)

	k, r1, r2, err := prover.Ephemeral()
	if err != nil {
		t.Fatal(err)
	}
	c, err := gMath.RandomScalar()
	if err != nil {
		t.Fatal(err)
	}
	s := prover.Respond(k, c, x)

	otherC, err := gMath.RandomScalar()
	if err != nil {
		t.Fatal(err)
	}
	for otherC.Encode() == c.Encode() {
		otherC, err = gMath.RandomScalar()
		if err != nil {
			t.Fatal(err)
		}
	}

	if verifier.Verify(y1, y2, r1, r2, otherC, s) {
		t.Fatal("response verified against the wrong challenge")
	}
}

func TestEmptyPasswordDerivesZero(t *testing.T) {
	gMath, hMath := toyDL()
	prover := NewProver(gMath, hMath)

	x := prover.DeriveSecret(nil)
	if x.Encode() != "0" {
		t.Fatalf("derive_secret(\"\") = %s, want 0", x.Encode())
	}

	y1, y2 := prover.PublicCommitments(x)
	if y1.Encode() != "1" || y2.Encode() != "1" {
		t.Fatalf("empty-password commitments = (%s, %s), want (1, 1)", y1.Encode(), y2.Encode())
	}
}
