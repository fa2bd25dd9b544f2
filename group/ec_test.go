package group

import (
	"testing"

	ristretto "github.com/gtank/ristretto255"
)

func newTestEC(t *testing.T) (gMath, hMath *EC) {
	t.Helper()
	base := Basepoint()
	hScalar, err := new(EC).RandomScalar()
	if err != nil {
		t.Fatal(err)
	}
	h := new(ristretto.Element).ScalarMult(hScalar.(ecScalar).v, base)
	return NewEC(base), NewEC(h)
}

func TestECCombineMatchesProverResponse(t *testing.T) {
	gMath, hMath := newTestEC(t)

	x := gMath.ScalarFromBytes([]byte("hunter2"))
	y1 := gMath.Mul(x)
	y2 := hMath.Mul(x)

	k, err := gMath.RandomScalar()
	if err != nil {
		t.Fatal(err)
	}
	r1 := gMath.Mul(k)
	r2 := hMath.Mul(k)

	c, err := gMath.RandomScalar()
	if err != nil {
		t.Fatal(err)
	}
	prod := gMath.MulScalars(c, x)
	s := gMath.Add(k, prod)

	if got := gMath.Combine(s, c, y1); !got.Equal(r1) {
		t.Fatalf("Combine(g) = %s, want %s", got.Encode(), r1.Encode())
	}
	if got := hMath.Combine(s, c, y2); !got.Equal(r2) {
		t.Fatalf("Combine(h) = %s, want %s", got.Encode(), r2.Encode())
	}
}

func TestECEmptyPasswordMapsToZero(t *testing.T) {
	gMath, _ := newTestEC(t)
	x := gMath.ScalarFromBytes(nil)
	zero := ecScalar{v: new(ristretto.Scalar).Zero()}
	if x.Encode() != zero.Encode() {
		t.Fatalf("derive_secret(\"\") = %s, want %s", x.Encode(), zero.Encode())
	}
}

func TestECScalarEncodeDecodeRoundTrip(t *testing.T) {
	gMath, _ := newTestEC(t)
	s, err := gMath.RandomScalar()
	if err != nil {
		t.Fatal(err)
	}
	parsed, err := gMath.ParseScalar(s.Encode())
	if err != nil {
		t.Fatal(err)
	}
	if parsed.Encode() != s.Encode() {
		t.Fatalf("round trip mismatch: got %s, want %s", parsed.Encode(), s.Encode())
	}
}

func TestECElementEncodeDecodeRoundTrip(t *testing.T) {
	gMath, _ := newTestEC(t)
	x := gMath.ScalarFromBytes([]byte("round trip"))
	y := gMath.Mul(x)
	parsed, err := gMath.ParseElement(y.Encode())
	if err != nil {
		t.Fatal(err)
	}
	if !parsed.Equal(y) {
		t.Fatalf("round trip mismatch: got %s, want %s", parsed.Encode(), y.Encode())
	}
}

func TestECParseElementRejectsMalformed(t *testing.T) {
	gMath, _ := newTestEC(t)
	if _, err := gMath.ParseElement("not a number"); err == nil {
		t.Fatal("expected error for malformed element")
	}
	if _, err := gMath.ParseElement("-1"); err == nil {
		t.Fatal("expected error for negative element")
	}
}
