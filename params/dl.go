package params

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"zkauth/group"
	"zkauth/internal/zkerr"
)

// DefaultBits is the default bit-length of q when none is requested.
const DefaultBits = 256

const (
	maxPrimeAttempts = 64
	maxGenAttempts   = 1024
)

// GenerateDL produces a fresh (p, q, g, h) parameter set for the
// discrete-logarithm flavor. bits sizes q; p is searched as p = k*q+1
// for increasing k until both are prime, following the strategy
// spec.md section 4.2 pins. If prime is non-nil it is used directly as
// q instead of searching for a fresh one.
func GenerateDL(bits int, prime *big.Int) (*Params, error) {
	if bits <= 0 {
		bits = DefaultBits
	}

	q := prime
	if q == nil {
		var err error
		q, err = randomPrime(bits)
		if err != nil {
			return nil, fmt.Errorf("params: %w: %v", zkerr.ErrParameterGeneration, err)
		}
	}

	p, err := findSafePrime(q)
	if err != nil {
		return nil, err
	}

	g, err := findGenerator(p, q, nil)
	if err != nil {
		return nil, err
	}
	h, err := findGenerator(p, q, g)
	if err != nil {
		return nil, err
	}

	return &Params{Flavor: group.DiscreteLogarithm, P: p, Q: q, G: g, H: h}, nil
}

// randomPrime samples a random prime of the given bit length.
func randomPrime(bits int) (*big.Int, error) {
	return rand.Prime(rand.Reader, bits)
}

// findSafePrime searches for the smallest k>=2 (even, so p is odd) such
// that p = k*q+1 is prime.
func findSafePrime(q *big.Int) (*big.Int, error) {
	k := big.NewInt(2)
	p := new(big.Int)
	for attempt := 0; attempt < maxPrimeAttempts*64; attempt++ {
		p.Mul(k, q)
		p.Add(p, big.NewInt(1))
		if p.ProbablyPrime(32) {
			return new(big.Int).Set(p), nil
		}
		k.Add(k, big.NewInt(2))
	}
	return nil, fmt.Errorf("params: %w: exhausted search for p = k*q+1", zkerr.ErrParameterGeneration)
}

// findGenerator picks a ∈ [2, p-2] at random and sets g = a^((p-1)/q)
// mod p until g != 1 and g != avoid (when avoid is non-nil), per
// spec.md section 4.2.
func findGenerator(p, q *big.Int, avoid *big.Int) (*big.Int, error) {
	exp := new(big.Int).Sub(p, big.NewInt(1))
	exp.Div(exp, q)

	pMinus3 := new(big.Int).Sub(p, big.NewInt(3))
	one := big.NewInt(1)

	for attempt := 0; attempt < maxGenAttempts; attempt++ {
		a, err := rand.Int(rand.Reader, pMinus3)
		if err != nil {
			return nil, fmt.Errorf("params: %w: %v", zkerr.ErrParameterGeneration, err)
		}
		a.Add(a, big.NewInt(2)) // shift into [2, p-2]

		g := new(big.Int).Exp(a, exp, p)
		if g.Cmp(one) == 0 {
			continue
		}
		if avoid != nil && g.Cmp(avoid) == 0 {
			continue
		}
		return g, nil
	}
	return nil, fmt.Errorf("params: %w: exhausted search for generator", zkerr.ErrParameterGeneration)
}
