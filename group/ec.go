package group

import (
	"crypto/rand"
	"fmt"
	"math/big"

	ristretto "github.com/gtank/ristretto255"

	"zkauth/internal/zkerr"
)

// ecScalar is a value in the Ristretto255 scalar field.
type ecScalar struct{ v *ristretto.Scalar }

func (s ecScalar) Encode() string { return scalarToDecimal(s.v) }

// ecElement is a Ristretto255 group element.
type ecElement struct{ v *ristretto.Element }

func (e ecElement) Encode() string { return elementToDecimal(e.v) }

func (e ecElement) Equal(other Element) bool {
	o, ok := other.(ecElement)
	if !ok {
		return false
	}
	return e.v.Equal(o.v) == 1
}

// EC implements Math over Ristretto255, bound to a single base element
// (G or H). Both generators share the same scalar field order q.
type EC struct {
	base *ristretto.Element
}

// NewEC constructs a Math bound to the given base element.
func NewEC(base *ristretto.Element) *EC {
	return &EC{base: base}
}

func (e *EC) Flavor() Flavor { return EllipticCurve }

// RandomScalar samples a uniformly random non-zero Ristretto scalar,
// the same construction as the teacher's randomScalar helper: 64 bytes
// of entropy reduced into the field via FromUniformBytes, resampled if
// the (astronomically unlikely) result is zero.
func (e *EC) RandomScalar() (Scalar, error) {
	for i := 0; i < 256; i++ {
		b := make([]byte, 64)
		if _, err := rand.Read(b); err != nil {
			return nil, fmt.Errorf("group: random scalar: %w", err)
		}
		s := new(ristretto.Scalar).FromUniformBytes(b)
		if s.Equal(new(ristretto.Scalar).Zero()) != 1 {
			return ecScalar{v: s}, nil
		}
	}
	return nil, fmt.Errorf("group: %w: exhausted retries sampling non-zero scalar", zkerr.ErrInternal)
}

// ScalarFromBytes maps arbitrary bytes onto the Ristretto255 scalar
// field: interpreted as an unsigned big-endian integer, reduced mod the
// field order, then written little-endian into the 64-byte width
// FromUniformBytes expects. This is a direct reinterpretation, not a
// hash, per the pinned derivation in spec.md section 4.3.
func (e *EC) ScalarFromBytes(b []byte) Scalar {
	n := new(big.Int).SetBytes(b)
	n.Mod(n, ristrettoOrder())
	return ecScalar{v: new(ristretto.Scalar).FromUniformBytes(littleEndian(n, 64))}
}

func (e *EC) ParseScalar(s string) (Scalar, error) {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok || n.Sign() < 0 || n.Cmp(ristrettoOrder()) >= 0 {
		return nil, fmt.Errorf("group: %w: %q is not a valid scalar", zkerr.ErrInvalidEncoding, s)
	}
	sc := new(ristretto.Scalar)
	if err := sc.Decode(littleEndian(n, 32)); err != nil {
		return nil, fmt.Errorf("group: %w: %v", zkerr.ErrInvalidEncoding, err)
	}
	return ecScalar{v: sc}, nil
}

func (e *EC) ParseElement(s string) (Element, error) {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok || n.Sign() < 0 {
		return nil, fmt.Errorf("group: %w: %q is not a valid group element", zkerr.ErrInvalidEncoding, s)
	}
	el := new(ristretto.Element)
	if err := el.Decode(leftPad32(n.Bytes())); err != nil {
		return nil, fmt.Errorf("group: %w: %v", zkerr.ErrInvalidEncoding, err)
	}
	return ecElement{v: el}, nil
}

func (e *EC) Mul(x Scalar) Element {
	xs := x.(ecScalar)
	return ecElement{v: new(ristretto.Element).ScalarMult(xs.v, e.base)}
}

func (e *EC) Add(a, b Scalar) Scalar {
	as, bs := a.(ecScalar), b.(ecScalar)
	return ecScalar{v: new(ristretto.Scalar).Add(as.v, bs.v)}
}

func (e *EC) Sub(a, b Scalar) Scalar {
	as, bs := a.(ecScalar), b.(ecScalar)
	return ecScalar{v: new(ristretto.Scalar).Subtract(as.v, bs.v)}
}

func (e *EC) MulScalars(a, b Scalar) Scalar {
	as, bs := a.(ecScalar), b.(ecScalar)
	return ecScalar{v: new(ristretto.Scalar).Multiply(as.v, bs.v)}
}

// Combine computes R = s*base - c*Y, the EC-flavor reconstruction
// matching the additive response convention s = k + c*x.
func (e *EC) Combine(s, c Scalar, y Element) Element {
	ss, cs, ye := s.(ecScalar), c.(ecScalar), y.(ecElement)
	sBase := new(ristretto.Element).ScalarMult(ss.v, e.base)
	cY := new(ristretto.Element).ScalarMult(cs.v, ye.v)
	return ecElement{v: new(ristretto.Element).Subtract(sBase, cY)}
}

// Basepoint returns the Ristretto255 standard generator G.
func Basepoint() *ristretto.Element {
	return new(ristretto.Element).Base()
}

// scalarToDecimal renders the scalar's integer value in decimal. Scalar
// encodings are little-endian, so the bytes are reversed first.
func scalarToDecimal(s *ristretto.Scalar) string {
	le := s.Encode(nil)
	be := make([]byte, len(le))
	for i, b := range le {
		be[len(le)-1-i] = b
	}
	return new(big.Int).SetBytes(be).String()
}

// littleEndian writes n into a zero-padded little-endian buffer of the
// given width, the byte order ristretto255 scalars use. n must fit.
func littleEndian(n *big.Int, width int) []byte {
	be := n.Bytes()
	out := make([]byte, width)
	for i, b := range be {
		out[len(be)-1-i] = b
	}
	return out
}

func elementToDecimal(e *ristretto.Element) string {
	return new(big.Int).SetBytes(e.Encode(nil)).String()
}

func leftPad32(b []byte) []byte {
	if len(b) >= 32 {
		return b[len(b)-32:]
	}
	out := make([]byte, 32)
	copy(out[32-len(b):], b)
	return out
}

// ristrettoOrder is the order of the Ristretto255 prime-order group.
func ristrettoOrder() *big.Int {
	n, _ := new(big.Int).SetString("1000000000000000000000000000000014def9dea2f79cd65812631a5cf5d3ed", 16)
	return n
}
