package group

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"zkauth/internal/zkerr"
)

// dlScalar is a value in Z_q for the discrete-logarithm flavor.
type dlScalar struct{ v *big.Int }

func (s dlScalar) Encode() string { return s.v.String() }

// dlElement is a value in the multiplicative group mod p.
type dlElement struct{ v *big.Int }

func (e dlElement) Encode() string { return e.v.String() }

func (e dlElement) Equal(other Element) bool {
	o, ok := other.(dlElement)
	if !ok {
		return false
	}
	return e.v.Cmp(o.v) == 0
}

// DL implements Math for the multiplicative group of integers modulo p,
// bound to a single generator (g or h). p, q are shared by both
// generators of a parameter set; construct one DL per generator.
type DL struct {
	p *big.Int
	q *big.Int
	g *big.Int // the generator this Math is bound to
}

// NewDL constructs a Math bound to generator gen in the group (p, q).
func NewDL(p, q, gen *big.Int) *DL {
	return &DL{p: p, q: q, g: new(big.Int).Mod(gen, p)}
}

func (d *DL) Flavor() Flavor { return DiscreteLogarithm }

func (d *DL) RandomScalar() (Scalar, error) {
	for i := 0; i < 256; i++ {
		n, err := rand.Int(rand.Reader, d.q)
		if err != nil {
			return nil, fmt.Errorf("group: random scalar: %w", err)
		}
		if n.Sign() != 0 {
			return dlScalar{v: n}, nil
		}
	}
	return nil, fmt.Errorf("group: %w: exhausted retries sampling non-zero scalar", zkerr.ErrInternal)
}

func (d *DL) ScalarFromBytes(b []byte) Scalar {
	n := new(big.Int).SetBytes(b)
	return dlScalar{v: n.Mod(n, d.q)}
}

func (d *DL) ParseScalar(s string) (Scalar, error) {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok || n.Sign() < 0 || n.Cmp(d.q) >= 0 {
		return nil, fmt.Errorf("group: %w: %q is not a valid scalar", zkerr.ErrInvalidEncoding, s)
	}
	return dlScalar{v: n}, nil
}

func (d *DL) ParseElement(s string) (Element, error) {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok || n.Sign() <= 0 || n.Cmp(d.p) >= 0 {
		return nil, fmt.Errorf("group: %w: %q is not a valid group element", zkerr.ErrInvalidEncoding, s)
	}
	return dlElement{v: n}, nil
}

func (d *DL) Mul(x Scalar) Element {
	xs := x.(dlScalar)
	return dlElement{v: new(big.Int).Exp(d.g, xs.v, d.p)}
}

func (d *DL) Add(a, b Scalar) Scalar {
	as, bs := a.(dlScalar), b.(dlScalar)
	sum := new(big.Int).Add(as.v, bs.v)
	return dlScalar{v: sum.Mod(sum, d.q)}
}

func (d *DL) Sub(a, b Scalar) Scalar {
	as, bs := a.(dlScalar), b.(dlScalar)
	diff := new(big.Int).Sub(as.v, bs.v)
	return dlScalar{v: diff.Mod(diff, d.q)}
}

func (d *DL) MulScalars(a, b Scalar) Scalar {
	as, bs := a.(dlScalar), b.(dlScalar)
	prod := new(big.Int).Mul(as.v, bs.v)
	return dlScalar{v: prod.Mod(prod, d.q)}
}

// Combine computes r = g^s * y^c mod p, the DL-flavor reconstruction of
// an ephemeral commitment from a response scalar s, challenge c, and
// public commitment y.
func (d *DL) Combine(s, c Scalar, y Element) Element {
	ss, cs, ye := s.(dlScalar), c.(dlScalar), y.(dlElement)
	gs := new(big.Int).Exp(d.g, ss.v, d.p)
	yc := new(big.Int).Exp(ye.v, cs.v, d.p)
	return dlElement{v: gs.Mul(gs, yc).Mod(gs, d.p)}
}
