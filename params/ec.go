package params

import (
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/sha3"

	ristretto "github.com/gtank/ristretto255"

	"zkauth/group"
	"zkauth/internal/zkerr"
)

// GenerateEC produces a fresh (G, H) parameter set for the
// elliptic-curve flavor. G is the Ristretto255 standard basepoint; H is
// the basepoint multiplied by a scalar derived from fresh entropy, the
// same hash-then-FromUniformBytes construction the teacher corpus uses
// to map arbitrary input onto the curve (avahowell-occlude's oprfA).
func GenerateEC() (*Params, error) {
	seed := make([]byte, 64)
	if _, err := rand.Read(seed); err != nil {
		return nil, fmt.Errorf("params: %w: %v", zkerr.ErrParameterGeneration, err)
	}
	digest := sha3.Sum512(seed)

	hScalar := new(ristretto.Scalar).FromUniformBytes(digest[:])
	if hScalar.Equal(new(ristretto.Scalar).Zero()) == 1 {
		return nil, fmt.Errorf("params: %w: derived zero scalar for H", zkerr.ErrParameterGeneration)
	}

	g := group.Basepoint()
	h := new(ristretto.Element).ScalarMult(hScalar, g)

	return &Params{Flavor: group.EllipticCurve, ECG: g, ECH: h}, nil
}
